package handlers

import (
	"context"
	"net/http"

	"github.com/serroba/linkshort/internal/shortener"
	"go.uber.org/zap"
)

// RedirectHandler serves the hot redirect path.
type RedirectHandler struct {
	resolver *shortener.RedirectResolver
	logger   *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(resolver *shortener.RedirectResolver, logger *zap.Logger) *RedirectHandler {
	return &RedirectHandler{
		resolver: resolver,
		logger:   logger,
	}
}

func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := RequestMetaFromContext(ctx)
	click := shortener.ClickEvent{
		IPAddress: meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	destination, err := h.resolver.Resolve(ctx, shortener.Code(req.Code), click)
	if err != nil {
		return nil, mapDomainError(err, h.logger)
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = destination

	return resp, nil
}
