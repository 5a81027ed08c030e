package handlers

import (
	"context"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshort/internal/shortener"
	"go.uber.org/zap"
)

// LinkHandler handles link creation and management operations.
type LinkHandler struct {
	service *shortener.ShortenService
	baseURL string
	logger  *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(service *shortener.ShortenService, baseURL string, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service: service,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (h *LinkHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	link, err := h.service.Shorten(ctx, shortener.ShortenRequest{
		OriginalURL: req.Body.OriginalURL,
		CustomCode:  shortener.Code(req.Body.CustomCode),
		ExpiresAt:   req.Body.ExpiresAt,
		Owner:       IdentityFromContext(ctx),
	})
	if err != nil {
		return nil, mapDomainError(err, h.logger)
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, link.Code)

	resp := &ShortenResponse{}
	resp.Headers.Location = shortURL
	resp.Body.Code = string(link.Code)
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = link.OriginalURL

	return resp, nil
}

func (h *LinkHandler) ListLinks(ctx context.Context, _ *struct{}) (*ListLinksResponse, error) {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	links, err := h.service.ListByOwner(ctx, *identity)
	if err != nil {
		return nil, mapDomainError(err, h.logger)
	}

	resp := &ListLinksResponse{}
	resp.Body.Count = len(links)
	resp.Body.Links = make([]LinkSummary, 0, len(links))

	for _, link := range links {
		resp.Body.Links = append(resp.Body.Links, LinkSummary{
			ID:          link.ID,
			Code:        string(link.Code),
			OriginalURL: link.OriginalURL,
			ClickCount:  link.ClickCount,
			Active:      link.Active,
			ExpiresAt:   link.ExpiresAt,
			CreatedAt:   link.CreatedAt,
		})
	}

	return resp, nil
}

func (h *LinkHandler) Analytics(ctx context.Context, req *AnalyticsRequest) (*AnalyticsResponse, error) {
	report, err := h.service.Analytics(ctx, shortener.Code(req.Code), IdentityFromContext(ctx))
	if err != nil {
		return nil, mapDomainError(err, h.logger)
	}

	resp := &AnalyticsResponse{}
	resp.Body.OriginalURL = report.OriginalURL
	resp.Body.Code = string(report.Code)
	resp.Body.TotalClicks = report.TotalClicks
	resp.Body.CreatedAt = report.CreatedAt
	resp.Body.ClicksByDate = report.ClicksByDate
	resp.Body.ClickHistory = make([]ClickEventBody, 0, len(report.ClickHistory))

	for _, click := range report.ClickHistory {
		resp.Body.ClickHistory = append(resp.Body.ClickHistory, ClickEventBody{
			Timestamp: click.Timestamp,
			IPAddress: click.IPAddress,
			UserAgent: click.UserAgent,
			Referrer:  click.Referrer,
		})
	}

	return resp, nil
}

func (h *LinkHandler) Deactivate(ctx context.Context, req *LinkIDRequest) (*ConfirmationResponse, error) {
	if err := h.service.Deactivate(ctx, req.ID, IdentityFromContext(ctx)); err != nil {
		return nil, mapDomainError(err, h.logger)
	}

	resp := &ConfirmationResponse{}
	resp.Body.Message = "link deactivated"

	return resp, nil
}

func (h *LinkHandler) Delete(ctx context.Context, req *LinkIDRequest) (*ConfirmationResponse, error) {
	if err := h.service.Delete(ctx, req.ID, IdentityFromContext(ctx)); err != nil {
		return nil, mapDomainError(err, h.logger)
	}

	resp := &ConfirmationResponse{}
	resp.Body.Message = "link deleted"

	return resp, nil
}
