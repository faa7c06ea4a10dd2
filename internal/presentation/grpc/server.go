package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/bibbank/credit-risk/pkg/auth"
	"github.com/bibbank/credit-risk/pkg/tlsutil"
)

// ServerOptions configures the gRPC server.
type ServerOptions struct {
	TLS         tlsutil.ServerConfig
	ServiceName string
	// RateLimitRPS caps calls per second across all clients. Zero disables it.
	RateLimitRPS int
	Reflection   bool
}

// Server wraps a gRPC server with the risk handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server. Handler panics are
// recovered into codes.Internal. Health checks bypass authentication; every
// other method requires a valid JWT.
func NewServer(handler RiskServiceServer, jwtService *auth.JWTService, opts ServerOptions, logger *slog.Logger) (*Server, error) {
	healthMethods := []string{
		"/grpc.health.v1.Health/Check",
		"/grpc.health.v1.Health/Watch",
	}

	interceptors := []grpc.UnaryServerInterceptor{UnaryRecoveryInterceptor(logger)}
	if opts.RateLimitRPS > 0 {
		interceptors = append(interceptors, UnaryRateLimitInterceptor(NewRateLimiter(opts.RateLimitRPS), healthMethods))
	}
	interceptors = append(interceptors, auth.UnaryAuthInterceptor(jwtService, healthMethods))
	serverOpts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}

	if opts.TLS.Enabled() {
		creds, err := tlsutil.ServerCredentials(opts.TLS)
		if err != nil {
			return nil, fmt.Errorf("loading gRPC TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
		logger.Info("gRPC TLS enabled", "cert", opts.TLS.CertFile, "mtls", opts.TLS.ClientCAFile != "")
	} else {
		logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(serverOpts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(opts.ServiceName, healthpb.HealthCheckResponse_SERVING)

	if opts.Reflection {
		reflection.Register(gs)
	}

	RegisterRiskServiceServer(gs, handler)

	return &Server{
		gs:     gs,
		health: healthSrv,
		logger: logger,
	}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.logger.Info("gRPC server listening", "addr", addr)
	return s.gs.Serve(lis)
}

// GracefulStop marks the server NOT_SERVING and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}
