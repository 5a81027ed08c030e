package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshort/internal/shortener"
	"go.uber.org/zap"
)

// mapDomainError translates the domain error taxonomy into HTTP errors.
// NotFound and Gone stay distinguishable (404 vs 410) so a link that once
// existed reads differently from one that never did.
func mapDomainError(err error, logger *zap.Logger) error {
	var gone *shortener.GoneError

	switch {
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	case errors.As(err, &gone):
		return huma.Error410Gone("short url is " + gone.Reason)
	case errors.Is(err, shortener.ErrDuplicateCode):
		return huma.Error409Conflict("short code already taken")
	case errors.Is(err, shortener.ErrInvalidURL):
		return huma.Error400BadRequest("originalUrl must be an absolute http(s) url")
	case errors.Is(err, shortener.ErrInvalidCode):
		return huma.Error400BadRequest("customCode must be 3-32 characters from A-Za-z0-9_-")
	case errors.Is(err, shortener.ErrNotAuthorized):
		return huma.Error403Forbidden("not authorized")
	default:
		logger.Error("request failed", zap.Error(err))

		return huma.Error500InternalServerError("internal error")
	}
}
