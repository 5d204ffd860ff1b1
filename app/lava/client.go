package lava

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultHTTPTimeout = 10 * time.Second

var errNilRequest = fmt.Errorf("%w: request is required", ErrValidation)

type Config struct {
	ShopID        string
	SecretKey     string
	WebhookSecret string
	BaseURL       string
	HTTPTimeout   time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the HTTP client; its timeout takes precedence over Config.HTTPTimeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the Lava business API on behalf of one shop.
// Operations may run concurrently; SetWebhookSecret must not race with them.
type Client struct {
	cfg    Config
	client *http.Client
	logger logrus.FieldLogger
}

func NewClient(cfg Config, opts ...Option) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	cfg.HTTPTimeout = timeout
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	c := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logrus.WithField("module", "lava-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ShopID() string {
	return c.cfg.ShopID
}

func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// SetWebhookSecret configures the key used to verify inbound webhooks.
func (c *Client) SetWebhookSecret(secret string) *Client {
	c.cfg.WebhookSecret = secret
	return c
}

func (c *Client) Balance(ctx context.Context) (*BalanceResponse, error) {
	return post[ShopBalance](ctx, c, PathBalance, &ShopIDRequest{ShopID: c.cfg.ShopID})
}

// CreateInvoiceForOrder issues an invoice with the default expiry and payment methods.
func (c *Client) CreateInvoiceForOrder(ctx context.Context, orderID string, sum float64) (*InvoiceCreateResponse, error) {
	return c.CreateInvoice(ctx, NewInvoiceCreateRequest(sum, orderID, c.cfg.ShopID))
}

func (c *Client) CreateInvoice(ctx context.Context, req *InvoiceCreateRequest) (*InvoiceCreateResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return post[InvoiceCreated](ctx, c, PathInvoiceCreate, req)
}

func (c *Client) InvoiceStatusByOrderID(ctx context.Context, orderID string) (*InvoiceStatusResponse, error) {
	return c.InvoiceStatus(ctx, InvoiceStatusFromOrderID(c.cfg.ShopID, orderID))
}

func (c *Client) InvoiceStatusByInvoiceID(ctx context.Context, invoiceID string) (*InvoiceStatusResponse, error) {
	return c.InvoiceStatus(ctx, InvoiceStatusFromInvoiceID(c.cfg.ShopID, invoiceID))
}

func (c *Client) InvoiceStatus(ctx context.Context, req *InvoiceStatusRequest) (*InvoiceStatusResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return post[InvoiceInfo](ctx, c, PathInvoiceStatus, req)
}

func (c *Client) InvoiceTariffs(ctx context.Context) (*InvoiceTariffsResponse, error) {
	return post[InvoiceTariffs](ctx, c, PathInvoiceTariffs, &ShopIDRequest{ShopID: c.cfg.ShopID})
}

func (c *Client) CreatePayoffToLavaWallet(ctx context.Context, amount float64, orderID, walletID string) (*PayoffCreateResponse, error) {
	req, err := NewPayoffToLavaWallet(amount, orderID, c.cfg.ShopID, walletID)
	if err != nil {
		return nil, err
	}
	return c.CreatePayoff(ctx, req)
}

func (c *Client) CreatePayoffToCard(ctx context.Context, amount float64, orderID, bankCard string) (*PayoffCreateResponse, error) {
	req, err := NewPayoffToBankCard(amount, orderID, c.cfg.ShopID, bankCard)
	if err != nil {
		return nil, err
	}
	return c.CreatePayoff(ctx, req)
}

// CreatePayoff sends req as is, without validating the destination wallet.
func (c *Client) CreatePayoff(ctx context.Context, req *PayoffCreateRequest) (*PayoffCreateResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return post[PayoffCreated](ctx, c, PathPayoffCreate, req)
}

func (c *Client) PayoffStatusByOrderID(ctx context.Context, orderID string) (*PayoffStatusResponse, error) {
	return c.PayoffStatus(ctx, PayoffStatusFromOrderID(c.cfg.ShopID, orderID))
}

func (c *Client) PayoffStatusByPayoffID(ctx context.Context, payoffID string) (*PayoffStatusResponse, error) {
	return c.PayoffStatus(ctx, PayoffStatusFromPayoffID(c.cfg.ShopID, payoffID))
}

func (c *Client) PayoffStatus(ctx context.Context, req *PayoffStatusRequest) (*PayoffStatusResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return post[PayoffInfo](ctx, c, PathPayoffStatus, req)
}

func (c *Client) PayoffTariffs(ctx context.Context) (*PayoffTariffsResponse, error) {
	return post[PayoffTariff](ctx, c, PathPayoffTariffs, &ShopIDRequest{ShopID: c.cfg.ShopID})
}

func (c *Client) CheckLavaWallet(ctx context.Context, walletID string) (*WalletCheckResponse, error) {
	req, err := NewLavaWalletCheck(c.cfg.ShopID, walletID)
	if err != nil {
		return nil, err
	}
	return c.CheckPayoffWallet(ctx, req)
}

func (c *Client) CheckBankCard(ctx context.Context, bankCard string) (*WalletCheckResponse, error) {
	req, err := NewBankCardCheck(c.cfg.ShopID, bankCard)
	if err != nil {
		return nil, err
	}
	return c.CheckPayoffWallet(ctx, req)
}

// CheckPayoffWallet sends req as is, without validating the destination wallet.
func (c *Client) CheckPayoffWallet(ctx context.Context, req *PayoffWalletCheckRequest) (*WalletCheckResponse, error) {
	if req == nil {
		return nil, errNilRequest
	}
	return post[WalletCheck](ctx, c, PathPayoffWalletCheck, req)
}

func post[T any](ctx context.Context, c *Client, path string, req wireSchema) (*Envelope[T], error) {
	body, err := encodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s request: %v", ErrSerialization, path, err)
	}

	respBody, err := c.exchange(ctx, path, body)
	if err != nil {
		return nil, err
	}

	envelope, err := decodeEnvelope[T](respBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return envelope, nil
}

// exchange signs body and posts it unchanged. The same slice is signed and sent.
func (c *Client) exchange(ctx context.Context, path string, body []byte) ([]byte, error) {
	endpoint := joinEndpointURL(c.cfg.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %v", ErrTransport, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Signature", Sign(c.cfg.SecretKey, body))

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("lava: %s: %w", path, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("lava: %s: %w", path, ctxErr)
		}
		return nil, fmt.Errorf("%w: read %s response: %v", ErrTransport, path, err)
	}

	c.logger.WithFields(logrus.Fields{
		"path":        path,
		"http_status": resp.StatusCode,
		"latency":     time.Since(start).String(),
	}).Debug("lava_request")

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s (status=%d)", ErrTransport, endpoint, resp.StatusCode)
	}
	return respBody, nil
}
