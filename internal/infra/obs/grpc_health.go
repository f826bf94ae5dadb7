package obs

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCHealth serves grpc.health.v1 and mirrors the readiness checks into the
// overall serving status on every tick.
type GRPCHealth struct {
	Addr     string
	Health   HealthHandlers
	Interval time.Duration
	Logger   *slog.Logger

	server *health.Server
}

// Serve blocks until ctx is cancelled or the listener fails.
func (g *GRPCHealth) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", g.Addr)
	if err != nil {
		return err
	}
	srv := grpc.NewServer()
	g.server = health.NewServer()
	healthpb.RegisterHealthServer(srv, g.server)
	g.refresh(ctx)

	go g.watch(ctx)
	go func() {
		<-ctx.Done()
		g.server.Shutdown()
		srv.GracefulStop()
	}()

	if g.Logger != nil {
		g.Logger.Info("grpc health starting", "addr", g.Addr)
	}
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (g *GRPCHealth) watch(ctx context.Context) {
	interval := g.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.refresh(ctx)
		}
	}
}

func (g *GRPCHealth) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := g.Health.Ready(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		if g.Logger != nil {
			g.Logger.Warn("not ready", "error", err)
		}
	}
	g.server.SetServingStatus("", status)
}
