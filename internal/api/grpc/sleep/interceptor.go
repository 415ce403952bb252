package sleep

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/oshokin/sleep-watch/internal/logger"
	"github.com/oshokin/sleep-watch/internal/service/common"
)

// UnaryLogger returns an interceptor that gives every request the logger of
// parent, tagged with the method and the calling actor, and logs failures.
func UnaryLogger(parent context.Context) grpc.UnaryServerInterceptor {
	base := logger.FromContext(parent)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = logger.ToContext(ctx, base.With("method", info.FullMethod))

		if actor, ok := common.ActorFromContext(ctx); ok {
			ctx = logger.WithKV(ctx, "actor", actor)
		}

		resp, err := handler(ctx, req)
		if err != nil {
			logger.WarnKV(ctx, "Command rejected", "code", status.Code(err).String(), "error", err)
		}

		return resp, err
	}
}
