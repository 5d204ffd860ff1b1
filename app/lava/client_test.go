package lava

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testShopID = "SHOP-1"
	testSecret = "shop-secret"
)

type recordedRequest struct {
	Path    string
	Body    []byte
	Headers http.Header
}

type fakeGateway struct {
	server   *httptest.Server
	calls    atomic.Int32
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(w http.ResponseWriter, r *http.Request)
}

func newFakeGateway(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) *fakeGateway {
	t.Helper()
	g := &fakeGateway{respond: respond}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		g.mu.Lock()
		g.requests = append(g.requests, recordedRequest{Path: r.URL.Path, Body: body, Headers: r.Header.Clone()})
		g.mu.Unlock()
		g.respond(w, r)
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) client() *Client {
	return NewClient(Config{
		ShopID:    testShopID,
		SecretKey: testSecret,
		BaseURL:   g.server.URL + "/business/",
	})
}

func (g *fakeGateway) last(t *testing.T) recordedRequest {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.requests) == 0 {
		t.Fatal("expected at least one request")
	}
	return g.requests[len(g.requests)-1]
}

func respondWith(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestClientSignsExactTransmittedBody(t *testing.T) {
	gw := newFakeGateway(t, respondWith(`{"data":{"id":"inv-1","url":"https://pay.lava.ru/invoice/inv-1","amount":500,"status":1},"status":200,"status_check":true,"error":null}`))

	resp, err := gw.client().CreateInvoiceForOrder(context.Background(), "ORD-1", 500)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !resp.OK() || resp.Data.InvoiceID != "inv-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	req := gw.last(t)
	if req.Path != "/business/invoice/create" {
		t.Fatalf("unexpected path: %s", req.Path)
	}
	if got := req.Headers.Get("Signature"); got != Sign(testSecret, req.Body) {
		t.Fatalf("signature %s does not cover the transmitted body", got)
	}
	if req.Headers.Get("Accept") != "application/json" || req.Headers.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected headers: %v", req.Headers)
	}
	want := `{"sum":500,"orderId":"ORD-1","shopId":"SHOP-1","expire":300,"hookUrl":null,"successUrl":null,"failUrl":null,"customFields":null,"comment":null,"includeService":["card","sbp"]}`
	if string(req.Body) != want {
		t.Fatalf("unexpected body: %s", req.Body)
	}
}

func TestClientEndpointPaths(t *testing.T) {
	gw := newFakeGateway(t, respondWith(`{"data":null,"status":404,"status_check":false,"error":{"message":"not found"}}`))
	c := gw.client()
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
		path string
	}{
		{"balance", func() error { _, err := c.Balance(ctx); return err }, "/business/shop/get-balance"},
		{"invoice create", func() error { _, err := c.CreateInvoice(ctx, NewInvoiceCreateRequest(1, "o", testShopID)); return err }, "/business/invoice/create"},
		{"invoice status", func() error { _, err := c.InvoiceStatusByOrderID(ctx, "o"); return err }, "/business/invoice/status"},
		{"invoice status by id", func() error { _, err := c.InvoiceStatusByInvoiceID(ctx, "i"); return err }, "/business/invoice/status"},
		{"invoice tariffs", func() error { _, err := c.InvoiceTariffs(ctx); return err }, "/business/invoice/get-available-tariffs"},
		{"payoff create", func() error { _, err := c.CreatePayoffToLavaWallet(ctx, 1, "o", "R12345678"); return err }, "/business/payoff/create"},
		{"payoff card", func() error { _, err := c.CreatePayoffToCard(ctx, 1, "o", "1234567812345678"); return err }, "/business/payoff/create"},
		{"payoff status", func() error { _, err := c.PayoffStatusByPayoffID(ctx, "p"); return err }, "/business/payoff/info"},
		{"payoff status by order", func() error { _, err := c.PayoffStatusByOrderID(ctx, "o"); return err }, "/business/payoff/info"},
		{"payoff tariffs", func() error { _, err := c.PayoffTariffs(ctx); return err }, "/business/payoff/get-tariffs"},
		{"wallet check", func() error { _, err := c.CheckLavaWallet(ctx, "R12345678"); return err }, "/business/payoff/get-tariffs"},
		{"card check", func() error { _, err := c.CheckBankCard(ctx, "1234 5678 1234 5678"); return err }, "/business/payoff/get-tariffs"},
	}

	for _, tc := range cases {
		if err := tc.call(); err != nil {
			t.Fatalf("%s: business failure must not be an error, got %v", tc.name, err)
		}
		req := gw.last(t)
		if req.Path != tc.path {
			t.Fatalf("%s: expected path %s, got %s", tc.name, tc.path, req.Path)
		}
		var body map[string]any
		if err := json.Unmarshal(req.Body, &body); err != nil {
			t.Fatalf("%s: invalid body: %v", tc.name, err)
		}
		if body["shopId"] != testShopID {
			t.Fatalf("%s: expected shopId %s, got %v", tc.name, testShopID, body["shopId"])
		}
	}
}

func TestClientValidationHappensBeforeNetwork(t *testing.T) {
	gw := newFakeGateway(t, respondWith(`{"data":null,"status":200,"status_check":true,"error":null}`))
	c := gw.client()
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := c.CreatePayoffToLavaWallet(ctx, 1, "o", "R123"); return err },
		func() error { _, err := c.CreatePayoffToCard(ctx, 1, "o", "1234 5678"); return err },
		func() error { _, err := c.CheckLavaWallet(ctx, "wallet"); return err },
		func() error { _, err := c.CheckBankCard(ctx, "12345678123456789"); return err },
		func() error { _, err := c.CreatePayoff(ctx, nil); return err },
	}
	for i, call := range calls {
		if err := call(); !errors.Is(err, ErrValidation) {
			t.Fatalf("call %d: expected ErrValidation, got %v", i, err)
		}
	}
	if n := gw.calls.Load(); n != 0 {
		t.Fatalf("expected no network calls, got %d", n)
	}
}

func TestClientRawRequestsBypassValidation(t *testing.T) {
	gw := newFakeGateway(t, respondWith(`{"data":{"status":false},"status":200,"status_check":true,"error":null}`))
	c := gw.client()

	resp, err := c.CheckPayoffWallet(context.Background(), &PayoffWalletCheckRequest{ShopID: testShopID, Service: PayoffServiceLava, WalletTo: "not-a-wallet"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Data.Status {
		t.Fatal("expected wallet to be unavailable")
	}
	if gw.calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", gw.calls.Load())
	}
}

func TestClientEmptyBodyIsTransportError(t *testing.T) {
	for _, body := range []string{"", "  \n"} {
		gw := newFakeGateway(t, respondWith(body))
		resp, err := gw.client().Balance(context.Background())
		if !errors.Is(err, ErrTransport) {
			t.Fatalf("expected ErrTransport for %q, got %v", body, err)
		}
		if resp != nil {
			t.Fatalf("expected no response, got %+v", resp)
		}
	}
}

func TestClientMalformedBodyIsSerializationError(t *testing.T) {
	gw := newFakeGateway(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>502</html>")
	})

	_, err := gw.client().Balance(context.Background())
	if !errors.Is(err, ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}
}

func TestClientNullPayoffStatusIsSerializationError(t *testing.T) {
	gw := newFakeGateway(t, respondWith(`{"data":{"id":"po-1","status":null},"status":200,"status_check":true,"error":null}`))

	resp, err := gw.client().PayoffStatusByPayoffID(context.Background(), "po-1")
	if !errors.Is(err, ErrSerialization) {
		t.Fatalf("expected ErrSerialization, got %v", err)
	}
	if resp != nil {
		t.Fatalf("expected no response, got %+v", resp)
	}
}

func TestClientUnreachableGatewayIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	c := NewClient(Config{ShopID: testShopID, SecretKey: testSecret, BaseURL: baseURL})
	_, err := c.Balance(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestClientCancellation(t *testing.T) {
	gw := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	c := gw.client()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Balance(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	deadlineCtx, cancelDeadline := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelDeadline()
	resp, err := c.InvoiceTariffs(deadlineCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if resp != nil {
		t.Fatalf("expected no response, got %+v", resp)
	}
}

func TestClientConcurrentCalls(t *testing.T) {
	gw := newFakeGateway(t, respondWith(`{"data":{"balance":1,"active_balance":1,"freeze_balance":0},"status":200,"status_check":true,"error":null}`))
	c := gw.client()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Balance(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.calls.Load() != 16 {
		t.Fatalf("expected 16 calls, got %d", gw.calls.Load())
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{ShopID: testShopID, SecretKey: testSecret})
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("unexpected base url: %s", c.BaseURL())
	}
	if c.ShopID() != testShopID {
		t.Fatalf("unexpected shop id: %s", c.ShopID())
	}
	if got := joinEndpointURL(c.BaseURL(), PathBalance); got != "https://api.lava.ru/business/shop/get-balance" {
		t.Fatalf("unexpected endpoint: %s", got)
	}
	if PathPayoffWalletCheck != PathPayoffTariffs {
		t.Fatal("wallet check must share the tariffs route")
	}
}
