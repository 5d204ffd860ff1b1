package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

// RegisterHealth exposes grpc.health.v1.Health for the overall server and serviceName.
func RegisterHealth(grpcSrv *grpc.Server, serviceName string) *health.Server {
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	return healthSrv
}

// WatchDatabase flips serviceName to NOT_SERVING while the journal database is unreachable.
// It returns when ctx is done.
func WatchDatabase(ctx context.Context, healthSrv *health.Server, serviceName string, db pinger, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkDatabase(ctx, healthSrv, serviceName, db, interval)
		}
	}
}

func checkDatabase(ctx context.Context, healthSrv *health.Server, serviceName string, db pinger, timeout time.Duration) {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		logrus.WithError(err).WithField("service", serviceName).Warn("Database ping failed")
		healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}
