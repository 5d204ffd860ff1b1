package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-lava/app/lava"
	"github.com/vibast-solutions/ms-go-lava/config"
)

type gatewayResult interface {
	OK() bool
}

func mustCreateLavaClient() (*config.Config, *lava.Client) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	client := lava.NewClient(lava.Config{
		ShopID:        cfg.Lava.ShopID,
		SecretKey:     cfg.Lava.SecretKey,
		WebhookSecret: cfg.Lava.WebhookSecret,
		BaseURL:       cfg.Lava.BaseURL,
		HTTPTimeout:   cfg.Lava.HTTPTimeout,
	})
	return cfg, client
}

// runCall executes one gateway operation, logs its outcome and prints the envelope to out.
func runCall(out io.Writer, name string, fn func(ctx context.Context) (gatewayResult, error)) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := fn(ctx)
	latency := time.Since(start)
	entry := logrus.WithField("call", name).WithField("latency", latency.String())
	if err != nil {
		entry.WithError(err).Error("call_failed")
		return err
	}

	if err := printJSON(out, result); err != nil {
		return err
	}
	if !result.OK() {
		entry.Warn("call_rejected")
		return fmt.Errorf("%s: gateway reported failure", name)
	}
	entry.Info("call_completed")
	return nil
}

func printJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}
