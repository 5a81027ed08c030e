package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshort/internal/handlers"
	"github.com/serroba/linkshort/internal/shortener"
)

// IdentityHeader carries the user id resolved by the upstream authentication
// layer. Requests without it are anonymous.
const IdentityHeader = "X-User-Id"

// CallerIdentity is a middleware that attaches the resolved caller identity
// to the request context. Credential verification happens upstream; this
// layer only threads the result through.
func CallerIdentity(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if userID := ctx.Header(IdentityHeader); userID != "" {
			newCtx := handlers.ContextWithIdentity(ctx.Context(), shortener.Identity{UserID: userID})
			ctx = huma.WithContext(ctx, newCtx)
		}

		next(ctx)
	}
}
