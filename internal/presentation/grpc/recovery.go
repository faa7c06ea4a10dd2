package grpc

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryRecoveryInterceptor turns a handler panic into codes.Internal so one bad
// request cannot take the process down. The panic and stack are logged.
func UnaryRecoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(
		func(ctx context.Context, p any) error {
			logger.ErrorContext(ctx, "recovered from handler panic",
				"panic", p,
				"stack", string(debug.Stack()),
			)
			return status.Error(codes.Internal, "internal error")
		},
	))
}
