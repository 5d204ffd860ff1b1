package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-lava/app/entity"
	"github.com/vibast-solutions/ms-go-lava/app/factory"
	"github.com/vibast-solutions/ms-go-lava/app/lava"
	"github.com/vibast-solutions/ms-go-lava/app/mapper"
	"github.com/vibast-solutions/ms-go-lava/app/repository"
	"github.com/vibast-solutions/ms-go-lava/app/types"
)

type webhookVerifier interface {
	VerifyAndParseWebhook(rawBody []byte, signature string) (*lava.InvoiceWebhook, error)
}

type lavaWebhookRepository interface {
	Create(ctx context.Context, hook *entity.LavaWebhook) error
	List(ctx context.Context, filter repository.LavaWebhookFilter) ([]*entity.LavaWebhook, error)
}

type WebhookService struct {
	verifier webhookVerifier
	repo     lavaWebhookRepository
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewWebhookService(verifier webhookVerifier, repo lavaWebhookRepository) *WebhookService {
	return &WebhookService{
		verifier: verifier,
		repo:     repo,
		logger:   factory.NewModuleLogger("lava-webhook-service"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HandleInvoiceWebhook authenticates the raw delivery, decodes it and journals the outcome.
// A second delivery of the same (invoice, status) pair returns the parsed payload with ErrWebhookDuplicate.
func (s *WebhookService) HandleInvoiceWebhook(ctx context.Context, req *types.HandleLavaWebhookRequest) (*lava.InvoiceWebhook, error) {
	if req == nil || len(req.GetPayload()) == 0 {
		return nil, ErrInvalidRequest
	}

	hook, err := s.verifier.VerifyAndParseWebhook(req.GetPayload(), req.GetSignature())
	if err != nil {
		if errors.Is(err, lava.ErrConfiguration) {
			return nil, fmt.Errorf("%w: %v", ErrWebhookMisconfigured, err)
		}
		s.persistRejected(ctx, req, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrCallbackRejected, err)
	}
	if strings.TrimSpace(hook.InvoiceID) == "" {
		s.persistRejected(ctx, req, "invoice_id is missing")
		return nil, fmt.Errorf("%w: invoice_id is missing", ErrCallbackRejected)
	}

	item := mapper.InvoiceWebhookToEntity(hook, req, s.now())
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, repository.ErrWebhookAlreadyRecorded) {
			return hook, ErrWebhookDuplicate
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_id": hook.InvoiceID,
		"order_id":   hook.OrderID,
		"status":     hook.Status,
		"request_id": req.GetRequestId(),
	}).Info("lava_webhook_processed")

	return hook, nil
}

func (s *WebhookService) ListWebhooks(ctx context.Context, filter repository.LavaWebhookFilter) ([]*entity.LavaWebhook, error) {
	return s.repo.List(ctx, filter)
}

func (s *WebhookService) persistRejected(ctx context.Context, req *types.HandleLavaWebhookRequest, reason string) {
	item := mapper.RejectedWebhookToEntity(req, reason, s.now())
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.WithError(err).WithField("request_id", req.GetRequestId()).Warn("Failed to journal rejected webhook")
	}
}
