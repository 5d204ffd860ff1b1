package entity

import "time"

const (
	LavaWebhookOutcomeProcessed int32 = 10
	LavaWebhookOutcomeRejected  int32 = 20
)

// LavaWebhook is one journaled delivery to the webhook endpoint.
// Gateway fields stay nil for deliveries rejected before the payload was trusted.
type LavaWebhook struct {
	ID uint64

	InvoiceID *string
	OrderID   *string
	Status    *string
	Amount    *float64
	Credited  *float64
	PayTime   *time.Time

	RequestID   string
	Signature   string
	PayloadJSON string
	Outcome     int32
	Error       *string

	CreatedAt time.Time
}
