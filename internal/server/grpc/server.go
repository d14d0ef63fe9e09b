// Package grpc runs the operational gRPC endpoint: the standard
// grpc.health.v1 service reflecting database reachability.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "gophnotes.Notes"

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthServer struct {
	address     string
	logger      logging.Logger
	db          Pinger
	interval    time.Duration
	pingTimeout time.Duration
	health      *health.Server
}

func NewHealthServer(a string, l logging.Logger, db Pinger, interval time.Duration) *HealthServer {
	s := &HealthServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		db:          db,
		interval:    interval,
		pingTimeout: 5 * time.Second,
		health:      health.NewServer(),
	}
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *HealthServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Check pings the database once and publishes the result.
func (s *HealthServer) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()

	if err := s.db.PingContext(pingCtx); err != nil {
		s.logger.Warn(ctx, "database ping failed", "error", err)
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return false
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
	return true
}

// Watch re-checks the database every interval until ctx is cancelled.
func (s *HealthServer) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HealthServer) serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.Check(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
