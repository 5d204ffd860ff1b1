package lava

import (
	"encoding/json"
	"fmt"
	"strings"
)

const DefaultInvoiceExpireMinutes = 300

// DefaultIncludeServices returns the payment methods offered on a new invoice
// when the caller does not choose them.
func DefaultIncludeServices() []string {
	return []string{"card", "sbp"}
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus int

const (
	InvoiceStatusCreated InvoiceStatus = 1
	InvoiceStatusSuccess InvoiceStatus = 2
	InvoiceStatusExpired InvoiceStatus = 3
)

var invoiceStatusNames = map[InvoiceStatus]string{
	InvoiceStatusCreated: "created",
	InvoiceStatusSuccess: "success",
	InvoiceStatusExpired: "expired",
}

func (s InvoiceStatus) String() string {
	if name, ok := invoiceStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("invoice_status(%d)", int(s))
}

// UnmarshalJSON accepts the numeric code as well as the status name.
// null and codes outside the known range are rejected.
func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return fmt.Errorf("invoice status must not be null")
	}

	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		if _, ok := invoiceStatusNames[InvoiceStatus(code)]; !ok {
			return fmt.Errorf("unknown invoice status %d", code)
		}
		*s = InvoiceStatus(code)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("invoice status must be a number or a string: %w", err)
	}
	for status, candidate := range invoiceStatusNames {
		if strings.EqualFold(candidate, strings.TrimSpace(name)) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown invoice status %q", name)
}

// InvoiceCreateRequest is the body of invoice/create.
type InvoiceCreateRequest struct {
	Sum            float64
	OrderID        string
	ShopID         string
	ExpireMinutes  int
	HookURL        Optional[string]
	SuccessURL     Optional[string]
	FailURL        Optional[string]
	CustomFields   Optional[string]
	Comment        Optional[string]
	IncludeService Optional[[]string]
}

// NewInvoiceCreateRequest builds an invoice request with the gateway defaults:
// 300 minutes to expire and card and SBP payment methods.
func NewInvoiceCreateRequest(sum float64, orderID, shopID string) *InvoiceCreateRequest {
	return &InvoiceCreateRequest{
		Sum:            sum,
		OrderID:        orderID,
		ShopID:         shopID,
		ExpireMinutes:  DefaultInvoiceExpireMinutes,
		IncludeService: Some(DefaultIncludeServices()),
	}
}

func (r *InvoiceCreateRequest) wireFields() []wireField {
	return []wireField{
		required("sum", r.Sum),
		required("orderId", r.OrderID),
		required("shopId", r.ShopID),
		required("expire", r.ExpireMinutes),
		nullable("hookUrl", r.HookURL),
		nullable("successUrl", r.SuccessURL),
		nullable("failUrl", r.FailURL),
		nullable("customFields", r.CustomFields),
		nullable("comment", r.Comment),
		nullable("includeService", r.IncludeService),
	}
}

// InvoiceStatusRequest is the body of invoice/status. Exactly one of OrderID
// and InvoiceID is expected; absent ids are left out of the body.
type InvoiceStatusRequest struct {
	ShopID    string
	OrderID   Optional[string]
	InvoiceID Optional[string]
}

func InvoiceStatusFromOrderID(shopID, orderID string) *InvoiceStatusRequest {
	return &InvoiceStatusRequest{ShopID: shopID, OrderID: Some(orderID)}
}

func InvoiceStatusFromInvoiceID(shopID, invoiceID string) *InvoiceStatusRequest {
	return &InvoiceStatusRequest{ShopID: shopID, InvoiceID: Some(invoiceID)}
}

func (r *InvoiceStatusRequest) wireFields() []wireField {
	return []wireField{
		required("shopId", r.ShopID),
		omittable("orderId", r.OrderID),
		omittable("invoiceId", r.InvoiceID),
	}
}

// InvoiceBase holds the fields shared by invoice create and status payloads.
type InvoiceBase struct {
	InvoiceID      string        `json:"id"`
	Amount         float64       `json:"amount"`
	ShopID         string        `json:"shop_id"`
	Status         InvoiceStatus `json:"status"`
	HookURL        *string       `json:"hook_url"`
	SuccessURL     *string       `json:"success_url"`
	FailURL        *string       `json:"fail_url"`
	CustomFields   *string       `json:"custom_fields"`
	IncludeService []string      `json:"include_service"`
	ExcludeService []string      `json:"exclude_service"`
}

type InvoiceCreated struct {
	InvoiceBase
	Expired      DateTime `json:"expired"`
	URL          string   `json:"url"`
	Comment      *string  `json:"comment"`
	MerchantName string   `json:"merchantName"`
}

func (InvoiceCreated) requiredKeys() []string {
	return []string{"id", "url"}
}

type InvoiceInfo struct {
	InvoiceBase
	Expire  DateTime `json:"expire"`
	OrderID string   `json:"orderId"`
}

func (InvoiceInfo) requiredKeys() []string {
	return []string{"id", "status"}
}

type InvoiceTariff struct {
	Percent            float64 `json:"percent"`
	UserPercent        float64 `json:"user_percent"`
	ShopPercent        float64 `json:"shop_percent"`
	ServiceID          string  `json:"service_id"`
	ServiceName        string  `json:"service_name"`
	Status             int     `json:"status"`
	Currency           string  `json:"currency"`
	MinAmount          float64 `json:"min_amount"`
	MaxAmount          float64 `json:"max_amount"`
	FixCommission      float64 `json:"fix_commission"`
	DiscountPercent    float64 `json:"discount_percent"`
	DiscountFromAmount float64 `json:"discount_from_amount"`
}

type InvoiceTariffs []InvoiceTariff

func (InvoiceTariffs) requiredKeys() []string {
	return []string{"service_id"}
}

// InvoiceWebhook is the notification the gateway posts to the shop hook URL.
type InvoiceWebhook struct {
	InvoiceID    string   `json:"invoice_id"`
	OrderID      string   `json:"order_id"`
	Status       string   `json:"status"`
	PayTime      DateTime `json:"pay_time"`
	Amount       float64  `json:"amount"`
	CustomFields *string  `json:"custom_fields"`
	Credited     float64  `json:"credited"`
}
