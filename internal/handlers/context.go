package handlers

import (
	"context"

	"github.com/serroba/linkshort/internal/shortener"
)

type requestMetaKey struct{}

type identityKey struct{}

// RequestMeta holds HTTP request metadata captured for click recording.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

// ContextWithIdentity attaches the resolved caller identity to the context.
func ContextWithIdentity(ctx context.Context, identity shortener.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext extracts the caller identity, or nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *shortener.Identity {
	if v, ok := ctx.Value(identityKey{}).(shortener.Identity); ok {
		return &v
	}

	return nil
}
