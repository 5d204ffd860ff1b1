package lava

// Envelope is the response wrapper shared by every business endpoint.
// A decoded envelope with StatusCheck false is a business failure reported by
// the gateway, not a client error; inspect Error for details.
type Envelope[T any] struct {
	Data        *T   `json:"data"`
	Status      int  `json:"status"`
	StatusCheck bool `json:"status_check"`
	Error       any  `json:"error"`
}

// OK reports whether the gateway accepted the call and returned a payload.
func (e *Envelope[T]) OK() bool {
	return e != nil && e.StatusCheck && e.Data != nil
}

type (
	BalanceResponse        = Envelope[ShopBalance]
	InvoiceCreateResponse  = Envelope[InvoiceCreated]
	InvoiceStatusResponse  = Envelope[InvoiceInfo]
	InvoiceTariffsResponse = Envelope[InvoiceTariffs]
	PayoffCreateResponse   = Envelope[PayoffCreated]
	PayoffStatusResponse   = Envelope[PayoffInfo]
	PayoffTariffsResponse  = Envelope[PayoffTariff]
	WalletCheckResponse    = Envelope[WalletCheck]
)
