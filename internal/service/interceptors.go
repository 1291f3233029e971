package service

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/kuxala/hackathon-project-sub000/internal/logger"
	"github.com/rs/zerolog"
)

// LoggingInterceptor puts a request-scoped logger in the context and logs
// each call's outcome.
func LoggingInterceptor(log zerolog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			reqLog := log.With().Str("procedure", procedure).Logger()
			ctx = logger.WithContext(ctx, reqLog)

			start := time.Now()
			resp, err := next(ctx, req)

			event := reqLog.Info()
			if err != nil {
				code := connect.CodeOf(err)
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					event = reqLog.Error()
				} else {
					event = reqLog.Warn()
				}
				event = event.Err(err).Str("code", code.String())
			}
			event.Dur("duration", time.Since(start)).Msg("rpc")
			return resp, err
		}
	}
}
