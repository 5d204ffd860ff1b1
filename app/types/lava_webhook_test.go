package types

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

const samplePayload = `{"invoice_id":"7ea82675-4ded-4133-95a7-a6efbaf165cc","status":"success","pay_time":"2023-05-16 13:55:01","amount":10.00,"order_id":"order-1","custom_fields":null,"credited":9.70}`

func TestNewHandleLavaWebhookRequestFromContextReadsSignatureHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/lava", bytes.NewBufferString(samplePayload))
	req.Header.Set(HeaderSignature, " abc123 ")
	req.Header.Set(HeaderAuthorization, "ignored")
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "req-1")
	ctx := e.NewContext(req, rec)

	parsed, err := NewHandleLavaWebhookRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetSignature() != "abc123" {
		t.Fatalf("expected Signature header, got %q", parsed.GetSignature())
	}
	if string(parsed.GetPayload()) != samplePayload {
		t.Fatalf("expected untouched payload, got %q", parsed.GetPayload())
	}
	if parsed.GetRequestId() != "req-1" {
		t.Fatalf("expected request id from response header, got %q", parsed.GetRequestId())
	}
}

func TestNewHandleLavaWebhookRequestFromContextFallsBackToAuthorization(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/webhooks/lava", bytes.NewBufferString(samplePayload))
	req.Header.Set(HeaderAuthorization, "def456")
	ctx := e.NewContext(req, httptest.NewRecorder())

	parsed, err := NewHandleLavaWebhookRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.GetSignature() != "def456" {
		t.Fatalf("expected Authorization fallback, got %q", parsed.GetSignature())
	}
}

func TestHandleLavaWebhookValidate(t *testing.T) {
	req := &HandleLavaWebhookRequest{Payload: []byte(samplePayload)}
	if err := req.Validate(); err == nil {
		t.Fatal("expected signature validation error")
	}

	req = &HandleLavaWebhookRequest{Signature: "abc", Payload: []byte("  \n")}
	if err := req.Validate(); err == nil {
		t.Fatal("expected payload validation error")
	}

	req = &HandleLavaWebhookRequest{Signature: "abc", Payload: []byte(samplePayload)}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}
