// Package grpc runs the gRPC listener. It serves the standard health
// service; the reported status follows the store's ping.
package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/learnfeed/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const defaultPingInterval = 10 * time.Second

var netListen = net.Listen

// Pinger is the store the health status follows.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address      string
	store        Pinger
	health       *health.Server
	pingInterval time.Duration
	logger       logging.Logger
}

func NewGRPCServer(a string, store Pinger, l logging.Logger) *GRPCServer {
	return &GRPCServer{
		address:      a,
		store:        store,
		health:       health.NewServer(),
		pingInterval: defaultPingInterval,
		logger:       l.With("module", "grpc_server"),
	}
}

// checkStore sets the overall serving status from one store ping.
func (s *GRPCServer) checkStore(ctx context.Context) {
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "store ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
}

func (s *GRPCServer) watchStore(ctx context.Context) {
	t := time.NewTicker(s.pingInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.checkStore(ctx)
		}
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := netListen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(srv, s.health)

	s.checkStore(ctx)
	go s.watchStore(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
