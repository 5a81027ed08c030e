package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/linkshort/internal/ratelimit"
)

// RegisterRoutes registers the link shortener routes. Only the shorten
// endpoint carries rate limits; upstream infrastructure owns everything else.
func RegisterRoutes(api huma.API, links *LinkHandler, redirect *RedirectHandler) {
	huma.Register(api, huma.Operation{
		Method:        http.MethodPost,
		Path:          "/shorten",
		Summary:       "Create short link",
		Description:   "Shortens a URL, optionally with a custom code, expiry, and owner.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, links.Shorten)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL and records the click.",
		Tags:        []string{"Links"},
	}, redirect.Redirect)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List owned links",
		Description: "Lists the caller's links, newest first.",
		Tags:        []string{"Links"},
	}, links.ListLinks)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/links/{code}/analytics",
		Summary:     "Link analytics",
		Description: "Returns click history and per-day click counts for a link.",
		Tags:        []string{"Links"},
	}, links.Analytics)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/links/{id}/deactivate",
		Summary:     "Deactivate link",
		Description: "Stops serving a link without deleting its record.",
		Tags:        []string{"Links"},
	}, links.Deactivate)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/links/{id}",
		Summary:     "Delete link",
		Description: "Deletes a link and invalidates its cache entry.",
		Tags:        []string{"Links"},
	}, links.Delete)
}
