package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vibast-solutions/ms-go-lava/app/lava"
)

func TestRunCallPrintsEnvelope(t *testing.T) {
	var out bytes.Buffer
	err := runCall(&out, "balance", func(context.Context) (gatewayResult, error) {
		return &lava.BalanceResponse{Data: &lava.ShopBalance{Balance: 10}, Status: 200, StatusCheck: true}, nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), `"status_check": true`) {
		t.Fatalf("expected indented envelope, got %s", out.String())
	}
}

func TestRunCallReportsGatewayFailure(t *testing.T) {
	var out bytes.Buffer
	err := runCall(&out, "balance", func(context.Context) (gatewayResult, error) {
		return &lava.BalanceResponse{Status: 401, StatusCheck: false, Error: "Unauthorized"}, nil
	})
	if err == nil {
		t.Fatal("expected error for gateway failure")
	}
	if !strings.Contains(out.String(), "Unauthorized") {
		t.Fatalf("expected envelope to be printed, got %s", out.String())
	}
}

func TestRunCallPropagatesErrors(t *testing.T) {
	var out bytes.Buffer
	err := runCall(&out, "balance", func(context.Context) (gatewayResult, error) {
		return nil, lava.ErrTransport
	})
	if !errors.Is(err, lava.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %s", out.String())
	}
}
