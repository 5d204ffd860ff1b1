package mapper

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vibast-solutions/ms-go-lava/app/entity"
	"github.com/vibast-solutions/ms-go-lava/app/lava"
	"github.com/vibast-solutions/ms-go-lava/app/types"
)

const (
	maxRequestIDLength    = 64
	maxSignatureLength    = 128
	maxRejectReasonLength = 1024
)

func InvoiceWebhookToEntity(hook *lava.InvoiceWebhook, req *types.HandleLavaWebhookRequest, now time.Time) *entity.LavaWebhook {
	item := &entity.LavaWebhook{
		RequestID:   truncate(req.GetRequestId(), maxRequestIDLength),
		Signature:   truncate(req.GetSignature(), maxSignatureLength),
		PayloadJSON: string(req.GetPayload()),
		Outcome:     entity.LavaWebhookOutcomeProcessed,
		CreatedAt:   now,
	}
	if hook == nil {
		return item
	}

	item.InvoiceID = stringPtr(hook.InvoiceID)
	item.OrderID = stringPtr(hook.OrderID)
	item.Status = stringPtr(strings.ToLower(hook.Status))
	amount := hook.Amount
	item.Amount = &amount
	credited := hook.Credited
	item.Credited = &credited
	if !hook.PayTime.IsZero() {
		payTime := hook.PayTime.Time
		item.PayTime = &payTime
	}

	return item
}

// RejectedWebhookToEntity journals a delivery that failed verification; none of its payload is trusted.
func RejectedWebhookToEntity(req *types.HandleLavaWebhookRequest, reason string, now time.Time) *entity.LavaWebhook {
	item := InvoiceWebhookToEntity(nil, req, now)
	item.Outcome = entity.LavaWebhookOutcomeRejected

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "callback rejected"
	}
	reason = truncate(reason, maxRejectReasonLength)
	item.Error = &reason

	return item
}

func LavaWebhookToResponse(item *entity.LavaWebhook) *types.LavaWebhook {
	if item == nil {
		return nil
	}

	resp := &types.LavaWebhook{
		Id:        item.ID,
		InvoiceId: derefString(item.InvoiceID),
		OrderId:   derefString(item.OrderID),
		Status:    derefString(item.Status),
		Amount:    item.Amount,
		Credited:  item.Credited,
		RequestId: item.RequestID,
		Outcome:   outcomeName(item.Outcome),
		Error:     derefString(item.Error),
		CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
	if item.PayTime != nil {
		resp.PayTime = item.PayTime.Format(lava.DateTimeLayout)
	}

	return resp
}

func LavaWebhooksToResponse(items []*entity.LavaWebhook) []*types.LavaWebhook {
	out := make([]*types.LavaWebhook, 0, len(items))
	for _, item := range items {
		out = append(out, LavaWebhookToResponse(item))
	}
	return out
}

func outcomeName(outcome int32) string {
	switch outcome {
	case entity.LavaWebhookOutcomeProcessed:
		return "processed"
	case entity.LavaWebhookOutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

func stringPtr(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// truncate cuts value to at most max bytes without splitting a UTF-8 sequence.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
