package lava

import "strings"

const DefaultBaseURL = "https://api.lava.ru/business"

const (
	PathBalance        = "shop/get-balance"
	PathInvoiceCreate  = "invoice/create"
	PathInvoiceStatus  = "invoice/status"
	PathInvoiceTariffs = "invoice/get-available-tariffs"
	PathPayoffCreate   = "payoff/create"
	PathPayoffStatus   = "payoff/info"
	PathPayoffTariffs  = "payoff/get-tariffs"
	// PathPayoffWalletCheck shares its route with PathPayoffTariffs; the gateway
	// dispatches on the body.
	PathPayoffWalletCheck = "payoff/get-tariffs"
)

func joinEndpointURL(baseURL, path string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return baseURL + "/" + strings.TrimLeft(path, "/")
}
