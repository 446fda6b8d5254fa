// Package grpcserver exposes the standard gRPC health service.
//
// The overall service ("") is SERVING while the process runs. The listing
// provider is reported under ProviderService, following the probe status.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"biocareer/opportunity-service/internal/scheduler"
)

// ProviderService is the health service name of the listing provider.
const ProviderService = "biocareer.ListingProvider"

// Server wraps a grpc.Server carrying the health service.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// New constructs a Server. The provider starts as UNKNOWN until the first
// probe reports.
func New(logger *zap.Logger) *Server {
	logger = logger.Named("grpc")
	s := &Server{
		health: health.NewServer(),
		logger: logger,
	}
	s.grpc = grpc.NewServer(grpc.UnaryInterceptor(s.logUnary))
	healthpb.RegisterHealthServer(s.grpc, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ProviderService, healthpb.HealthCheckResponse_UNKNOWN)
	return s
}

// SetProviderStatus maps a probe result onto the provider health entry.
func (s *Server) SetProviderStatus(st scheduler.ProviderStatus) {
	s.health.SetServingStatus(ProviderService, toServingStatus(st))
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC listening", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

func toServingStatus(st scheduler.ProviderStatus) healthpb.HealthCheckResponse_ServingStatus {
	switch st {
	case scheduler.StatusLive:
		return healthpb.HealthCheckResponse_SERVING
	case scheduler.StatusOffline, scheduler.StatusDegraded:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug("rpc",
		zap.String("method", info.FullMethod),
		zap.String("code", status.Code(err).String()),
		zap.Duration("latency", time.Since(start)))
	return resp, err
}
