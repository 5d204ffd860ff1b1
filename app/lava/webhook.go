package lava

import (
	"encoding/json"
	"fmt"
)

// VerifyWebhook reports whether signature matches rawBody under the webhook secret.
// rawBody must be the untouched request body; a re-encoded payload will not verify.
func (c *Client) VerifyWebhook(rawBody []byte, signature string) (bool, error) {
	if c.cfg.WebhookSecret == "" {
		return false, fmt.Errorf("%w: webhook secret is not configured", ErrConfiguration)
	}
	return Sign(c.cfg.WebhookSecret, rawBody) == signature, nil
}

func ParseWebhook(rawBody []byte) (*InvoiceWebhook, error) {
	var hook InvoiceWebhook
	if err := json.Unmarshal(rawBody, &hook); err != nil {
		return nil, fmt.Errorf("%w: webhook: %v", ErrSerialization, err)
	}
	return &hook, nil
}

// VerifyAndParseWebhook checks the signature first and only then decodes the payload.
func (c *Client) VerifyAndParseWebhook(rawBody []byte, signature string) (*InvoiceWebhook, error) {
	ok, err := c.VerifyWebhook(rawBody, signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSignatureMismatch
	}
	return ParseWebhook(rawBody)
}
