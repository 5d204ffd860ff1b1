package lava

// ShopIDRequest is the body of endpoints that only need the shop identity.
type ShopIDRequest struct {
	ShopID string
}

func (r *ShopIDRequest) wireFields() []wireField {
	return []wireField{
		required("shopId", r.ShopID),
	}
}

type ShopBalance struct {
	Balance       float64 `json:"balance"`
	ActiveBalance float64 `json:"active_balance"`
	FreezeBalance float64 `json:"freeze_balance"`
}

func (ShopBalance) requiredKeys() []string {
	return []string{"balance", "active_balance", "freeze_balance"}
}
