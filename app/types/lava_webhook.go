package types

import (
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	HeaderSignature     = "Signature"
	HeaderAuthorization = "Authorization"
)

// HandleLavaWebhookRequest carries the delivery exactly as received; Payload is never re-encoded.
type HandleLavaWebhookRequest struct {
	RequestId string
	Signature string
	Payload   []byte
}

func (r *HandleLavaWebhookRequest) GetRequestId() string {
	if r == nil {
		return ""
	}
	return r.RequestId
}

func (r *HandleLavaWebhookRequest) GetSignature() string {
	if r == nil {
		return ""
	}
	return r.Signature
}

func (r *HandleLavaWebhookRequest) GetPayload() []byte {
	if r == nil {
		return nil
	}
	return r.Payload
}

func NewHandleLavaWebhookRequestFromContext(ctx echo.Context) (*HandleLavaWebhookRequest, error) {
	signature := strings.TrimSpace(ctx.Request().Header.Get(HeaderSignature))
	if signature == "" {
		signature = strings.TrimSpace(ctx.Request().Header.Get(HeaderAuthorization))
	}

	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}

	return &HandleLavaWebhookRequest{
		RequestId: strings.TrimSpace(ctx.Response().Header().Get(echo.HeaderXRequestID)),
		Signature: signature,
		Payload:   rawBody,
	}, nil
}

func (r *HandleLavaWebhookRequest) Validate() error {
	if strings.TrimSpace(r.GetSignature()) == "" {
		return errors.New("signature header is required")
	}
	if strings.TrimSpace(string(r.GetPayload())) == "" {
		return errors.New("payload is required")
	}
	return nil
}

type LavaWebhook struct {
	Id        uint64   `json:"id"`
	InvoiceId string   `json:"invoice_id,omitempty"`
	OrderId   string   `json:"order_id,omitempty"`
	Status    string   `json:"status,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
	Credited  *float64 `json:"credited,omitempty"`
	PayTime   string   `json:"pay_time,omitempty"`
	RequestId string   `json:"request_id"`
	Outcome   string   `json:"outcome"`
	Error     string   `json:"error,omitempty"`
	CreatedAt string   `json:"created_at"`
}

type ListLavaWebhooksResponse struct {
	Webhooks []*LavaWebhook `json:"webhooks"`
}
