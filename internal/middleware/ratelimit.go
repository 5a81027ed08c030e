package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshort/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware that applies the rate limits declared
// in operation metadata. Endpoints without a config pass through untouched,
// so only the endpoints that opt in (the shorten endpoint) are gated.
//
// Note: the rate limit key uses the operation's route template (e.g.
// "/shorten"), so all requests to the same route share counters per client.
func RateLimiter(
	api huma.API,
	limiter ratelimit.Limiter,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg == nil || cfg.Disabled || len(cfg.Limits) == 0 {
			next(ctx)

			return
		}

		path := ""
		if op := ctx.Operation(); op != nil {
			path = op.Path
		}

		allowed, exceeded, err := limiter.Allow(ctx.Context(), clientKey(ctx), path, cfg.Limits)
		if err != nil {
			logger.Error("rate limit check failed",
				zap.String("path", path),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", path),
				zap.String("method", ctx.Method()),
				zap.Int64("count", exceeded.Count),
				zap.Int64("max", exceeded.Config.Max),
				zap.Duration("window", exceeded.Config.Window),
				zap.String("client_ip", clientIP(ctx)),
			)
			msg := fmt.Sprintf("rate limit exceeded: %d/%d requests in %s",
				exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		next(ctx)
	}
}

// clientKey generates a unique key for rate limiting based on IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}
