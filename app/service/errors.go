package service

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrCallbackRejected     = errors.New("callback rejected")
	ErrWebhookMisconfigured = errors.New("webhook secret is not configured")
	ErrWebhookDuplicate     = errors.New("webhook already processed")
)
