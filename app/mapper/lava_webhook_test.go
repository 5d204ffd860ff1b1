package mapper

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/vibast-solutions/ms-go-lava/app/entity"
	"github.com/vibast-solutions/ms-go-lava/app/lava"
	"github.com/vibast-solutions/ms-go-lava/app/types"
)

func TestInvoiceWebhookToEntity(t *testing.T) {
	payTime := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	hook := &lava.InvoiceWebhook{
		InvoiceID: "inv-1",
		OrderID:   "ORD-1",
		Status:    "Success",
		PayTime:   lava.DateTime{Time: payTime},
		Amount:    500,
		Credited:  485.5,
	}
	req := &types.HandleLavaWebhookRequest{RequestId: "req-1", Signature: "sig", Payload: []byte(`{"invoice_id":"inv-1"}`)}
	now := time.Now().UTC()

	item := InvoiceWebhookToEntity(hook, req, now)
	if item.InvoiceID == nil || *item.InvoiceID != "inv-1" || item.OrderID == nil || *item.OrderID != "ORD-1" {
		t.Fatalf("unexpected ids: %+v", item)
	}
	if item.Status == nil || *item.Status != "success" {
		t.Fatalf("expected lower-cased status, got %v", item.Status)
	}
	if item.PayTime == nil || !item.PayTime.Equal(payTime) {
		t.Fatalf("unexpected pay time: %v", item.PayTime)
	}
	if *item.Amount != 500 || *item.Credited != 485.5 {
		t.Fatalf("unexpected amounts: %v %v", *item.Amount, *item.Credited)
	}
	if item.Outcome != entity.LavaWebhookOutcomeProcessed || item.PayloadJSON != `{"invoice_id":"inv-1"}` || !item.CreatedAt.Equal(now) {
		t.Fatalf("unexpected journal fields: %+v", item)
	}
}

func TestInvoiceWebhookToEntityWithoutPayload(t *testing.T) {
	item := InvoiceWebhookToEntity(nil, &types.HandleLavaWebhookRequest{Signature: "sig"}, time.Now().UTC())
	if item.InvoiceID != nil || item.Amount != nil || item.PayTime != nil {
		t.Fatalf("expected gateway fields to stay nil, got %+v", item)
	}
}

func TestLavaWebhookToResponse(t *testing.T) {
	invoiceID := "inv-1"
	reason := "signature mismatch"
	payTime := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	resp := LavaWebhookToResponse(&entity.LavaWebhook{
		ID:        3,
		InvoiceID: &invoiceID,
		PayTime:   &payTime,
		Outcome:   entity.LavaWebhookOutcomeRejected,
		Error:     &reason,
		CreatedAt: payTime,
	})
	if resp.Id != 3 || resp.InvoiceId != "inv-1" || resp.Outcome != "rejected" || resp.Error != reason {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.PayTime != "2024-03-01 12:30:00" {
		t.Fatalf("unexpected pay time: %q", resp.PayTime)
	}
	if resp.CreatedAt != "2024-03-01T12:30:00Z" {
		t.Fatalf("unexpected created_at: %q", resp.CreatedAt)
	}
	if LavaWebhookToResponse(nil) != nil {
		t.Fatal("expected nil for nil entity")
	}
}

func TestRejectedWebhookToEntityKeepsReasonValidUTF8(t *testing.T) {
	reason := strings.Repeat("подпись ", 200)
	item := RejectedWebhookToEntity(&types.HandleLavaWebhookRequest{Signature: "sig"}, reason, time.Now().UTC())

	if item.Outcome != entity.LavaWebhookOutcomeRejected || item.Error == nil {
		t.Fatalf("unexpected rejected row: %+v", item)
	}
	if len(*item.Error) > maxRejectReasonLength {
		t.Fatalf("expected reason capped at %d bytes, got %d", maxRejectReasonLength, len(*item.Error))
	}
	if !utf8.ValidString(*item.Error) {
		t.Fatal("expected reason to stay valid UTF-8")
	}
	if item.InvoiceID != nil {
		t.Fatal("expected untrusted payload fields to stay empty")
	}

	blank := RejectedWebhookToEntity(&types.HandleLavaWebhookRequest{}, "  ", time.Now().UTC())
	if *blank.Error != "callback rejected" {
		t.Fatalf("expected default reason, got %q", *blank.Error)
	}
}

func TestInvoiceWebhookToEntityCapsHeaderValues(t *testing.T) {
	req := &types.HandleLavaWebhookRequest{
		RequestId: strings.Repeat("r", 300),
		Signature: strings.Repeat("s", 300),
	}
	item := InvoiceWebhookToEntity(nil, req, time.Now().UTC())
	if len(item.RequestID) != maxRequestIDLength {
		t.Fatalf("expected request id capped at %d, got %d", maxRequestIDLength, len(item.RequestID))
	}
	if len(item.Signature) != maxSignatureLength {
		t.Fatalf("expected signature capped at %d, got %d", maxSignatureLength, len(item.Signature))
	}
}

func TestTruncateRespectsRuneBoundaries(t *testing.T) {
	value := "жжж"
	for max, want := range map[int]string{6: "жжж", 5: "жж", 4: "жж", 1: "", 0: ""} {
		if got := truncate(value, max); got != want {
			t.Fatalf("truncate(%q, %d): expected %q, got %q", value, max, want, got)
		}
	}
}
