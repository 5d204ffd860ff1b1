package cmd

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-lava/app/controller"
	lavagrpc "github.com/vibast-solutions/ms-go-lava/app/grpc"
	"github.com/vibast-solutions/ms-go-lava/app/repository"
	"github.com/vibast-solutions/ms-go-lava/app/service"
	"github.com/vibast-solutions/ms-go-lava/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook receiver",
	Long:  "Start the HTTP (Echo) webhook receiver and the gRPC health server.",
	Args:  cobra.NoArgs,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, db, webhookService, cleanup := mustCreateWebhookService()
	defer cleanup()

	if strings.TrimSpace(cfg.Lava.WebhookSecret) == "" {
		logrus.Warn("LAVA_WEBHOOK_SECRET is empty; webhook deliveries will be answered with 500")
	}

	webhookController := controller.NewWebhookController(webhookService)
	e := setupHTTPServer(webhookController, cfg.Webhook.Path, cfg.Webhook.BodyLimit)
	grpcSrv, healthSrv, lis := setupGRPCServer(cfg)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go lavagrpc.WatchDatabase(watchCtx, healthSrv, cfg.App.ServiceName, db, cfg.MySQL.HealthInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	stopWatch()
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(webhookController *controller.WebhookController, webhookPath, bodyLimit string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(ensureRequestID())

	e.GET("/health", webhookController.Health)
	e.POST(webhookPath, webhookController.HandleLavaWebhook)

	return e
}

// maxRequestIDLength matches the lava_webhooks.request_id column.
const maxRequestIDLength = 64

// ensureRequestID keeps a usable incoming X-Request-ID and generates one otherwise; the gateway never sends it.
func ensureRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.NewString()
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(ctx)
		}
	}
}

func setupGRPCServer(cfg *config.Config) (*grpc.Server, *health.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			lavagrpc.RecoveryInterceptor(),
			lavagrpc.RequestIDInterceptor(),
			lavagrpc.LoggingInterceptor(),
		),
	)
	healthSrv := lavagrpc.RegisterHealth(grpcSrv, cfg.App.ServiceName)

	return grpcSrv, healthSrv, lis
}

func mustCreateWebhookService() (*config.Config, *sql.DB, *service.WebhookService, func()) {
	cfg, client := mustCreateLavaClient()
	if strings.TrimSpace(cfg.MySQL.DSN) == "" {
		logrus.Fatal("MYSQL_DSN environment variable is required")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	webhookRepo := repository.NewLavaWebhookRepository(db)
	webhookService := service.NewWebhookService(client, webhookRepo)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return cfg, db, webhookService, cleanup
}
