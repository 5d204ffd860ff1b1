package lava

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PayoffService is the withdrawal channel, sent on the wire by name.
type PayoffService string

const (
	PayoffServiceLava PayoffService = "lava_payoff"
	// Deprecated: the gateway no longer pays out to QIWI.
	PayoffServiceQiwi PayoffService = "qiwi_payoff"
	PayoffServiceCard PayoffService = "card_payoff"
	// Deprecated: the gateway no longer pays out to Steam.
	PayoffServiceSteam PayoffService = "steam_payoff"
)

func (s PayoffService) Known() bool {
	switch s {
	case PayoffServiceLava, PayoffServiceQiwi, PayoffServiceCard, PayoffServiceSteam:
		return true
	default:
		return false
	}
}

// PayoffStatus is the lifecycle state of a payoff.
type PayoffStatus int

const (
	PayoffStatusCreated PayoffStatus = iota
	PayoffStatusSuccess
	PayoffStatusRejected
)

var payoffStatusNames = []string{"created", "success", "rejected"}

func (s PayoffStatus) String() string {
	if int(s) >= 0 && int(s) < len(payoffStatusNames) {
		return payoffStatusNames[s]
	}
	return fmt.Sprintf("payoff_status(%d)", int(s))
}

func (s PayoffStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the status name in any case or its ordinal.
func (s *PayoffStatus) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return fmt.Errorf("payoff status must not be null")
	}

	var ordinal int
	if err := json.Unmarshal(data, &ordinal); err == nil {
		if ordinal < 0 || ordinal >= len(payoffStatusNames) {
			return fmt.Errorf("unknown payoff status %d", ordinal)
		}
		*s = PayoffStatus(ordinal)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("payoff status must be a number or a string: %w", err)
	}
	for i, candidate := range payoffStatusNames {
		if strings.EqualFold(candidate, strings.TrimSpace(name)) {
			*s = PayoffStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown payoff status %q", name)
}

// PayoffCreateRequest is the body of payoff/create. Building it directly skips
// wallet validation; use NewPayoffToLavaWallet or NewPayoffToBankCard for checked input.
type PayoffCreateRequest struct {
	Amount   float64
	OrderID  string
	ShopID   string
	HookURL  Optional[string]
	Service  PayoffService
	WalletTo string
	Subtract int
}

func NewPayoffCreateRequest(amount float64, orderID, shopID string, service PayoffService, walletTo string) *PayoffCreateRequest {
	return &PayoffCreateRequest{
		Amount:   amount,
		OrderID:  orderID,
		ShopID:   shopID,
		Service:  service,
		WalletTo: walletTo,
	}
}

func NewPayoffToLavaWallet(amount float64, orderID, shopID, walletID string) (*PayoffCreateRequest, error) {
	if err := ValidateLavaWallet(walletID); err != nil {
		return nil, err
	}
	return NewPayoffCreateRequest(amount, orderID, shopID, PayoffServiceLava, walletID), nil
}

func NewPayoffToBankCard(amount float64, orderID, shopID, bankCard string) (*PayoffCreateRequest, error) {
	if err := ValidateBankCard(bankCard); err != nil {
		return nil, err
	}
	return NewPayoffCreateRequest(amount, orderID, shopID, PayoffServiceCard, bankCard), nil
}

func (r *PayoffCreateRequest) wireFields() []wireField {
	return []wireField{
		required("amount", r.Amount),
		required("orderId", r.OrderID),
		required("shopId", r.ShopID),
		nullable("hookUrl", r.HookURL),
		required("service", r.Service),
		required("walletTo", r.WalletTo),
		required("subtract", r.Subtract),
	}
}

// PayoffStatusRequest is the body of payoff/info.
type PayoffStatusRequest struct {
	ShopID   string
	OrderID  Optional[string]
	PayoffID Optional[string]
}

func PayoffStatusFromOrderID(shopID, orderID string) *PayoffStatusRequest {
	return &PayoffStatusRequest{ShopID: shopID, OrderID: Some(orderID)}
}

func PayoffStatusFromPayoffID(shopID, payoffID string) *PayoffStatusRequest {
	return &PayoffStatusRequest{ShopID: shopID, PayoffID: Some(payoffID)}
}

func (r *PayoffStatusRequest) wireFields() []wireField {
	return []wireField{
		required("shopId", r.ShopID),
		omittable("orderId", r.OrderID),
		omittable("payoffId", r.PayoffID),
	}
}

// PayoffWalletCheckRequest asks the gateway whether a destination can receive payoffs.
type PayoffWalletCheckRequest struct {
	ShopID   string
	Service  PayoffService
	WalletTo string
}

func NewLavaWalletCheck(shopID, walletID string) (*PayoffWalletCheckRequest, error) {
	if err := ValidateLavaWallet(walletID); err != nil {
		return nil, err
	}
	return &PayoffWalletCheckRequest{ShopID: shopID, Service: PayoffServiceLava, WalletTo: walletID}, nil
}

func NewBankCardCheck(shopID, bankCard string) (*PayoffWalletCheckRequest, error) {
	if err := ValidateBankCard(bankCard); err != nil {
		return nil, err
	}
	return &PayoffWalletCheckRequest{ShopID: shopID, Service: PayoffServiceCard, WalletTo: bankCard}, nil
}

func (r *PayoffWalletCheckRequest) wireFields() []wireField {
	return []wireField{
		required("shopId", r.ShopID),
		required("service", r.Service),
		required("walletTo", r.WalletTo),
	}
}

type PayoffCreated struct {
	PayoffID     string       `json:"payoff_id"`
	PayoffStatus PayoffStatus `json:"payoff_status"`
}

func (PayoffCreated) requiredKeys() []string {
	return []string{"payoff_id"}
}

type PayoffInfo struct {
	ID            string        `json:"id"`
	OrderID       string        `json:"orderId"`
	Status        PayoffStatus  `json:"status"`
	Wallet        string        `json:"wallet"`
	Service       PayoffService `json:"service"`
	AmountPay     float64       `json:"amountPay"`
	Commission    float64       `json:"commission"`
	AmountReceive float64       `json:"amountReceive"`
	TryCount      int           `json:"tryCount"`
	ErrorMessage  *string       `json:"errorMessage"`
}

func (PayoffInfo) requiredKeys() []string {
	return []string{"id", "status"}
}

type PayoffTariff struct {
	Percent  float64       `json:"percent"`
	MinSum   float64       `json:"min_sum"`
	MaxSum   float64       `json:"max_sum"`
	Service  PayoffService `json:"service"`
	Fix      float64       `json:"fix"`
	Title    string        `json:"title"`
	Currency string        `json:"currency"`
}

func (PayoffTariff) requiredKeys() []string {
	return []string{"service"}
}

type WalletCheck struct {
	Status bool `json:"status"`
}

func (WalletCheck) requiredKeys() []string {
	return []string{"status"}
}
