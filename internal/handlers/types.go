package handlers

import "time"

// ShortenRequest is the request body for creating a short link.
type ShortenRequest struct {
	Body struct {
		OriginalURL string     `doc:"The URL to shorten"                example:"https://example.com/very/long/path" json:"originalUrl"`
		CustomCode  string     `doc:"Optional custom short code"        example:"my-link"                            json:"customCode,omitempty" required:"false"`
		ExpiresAt   *time.Time `doc:"Optional expiry time for the link" json:"expiresAt,omitempty"                   required:"false"`
	}
}

// ShortenResponse is the response for a successfully created short link.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code        string `doc:"The short code"     example:"abc1234"                            json:"shortCode"`
		ShortURL    string `doc:"The full short URL" example:"http://localhost:8888/abc1234"      json:"shortUrl"`
		OriginalURL string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc1234" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// LinkSummary is one link in a listing.
type LinkSummary struct {
	ID          string     `doc:"Durable link identifier"      json:"id"`
	Code        string     `doc:"The short code"               json:"shortCode"`
	OriginalURL string     `doc:"The original URL"             json:"originalUrl"`
	ClickCount  int64      `doc:"Total recorded clicks"        json:"clickCount"`
	Active      bool       `doc:"Whether the link is served"   json:"isActive"`
	ExpiresAt   *time.Time `doc:"Expiry time, if any"          json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `doc:"Creation time"                json:"createdAt"`
}

// ListLinksResponse lists the caller's links, newest first.
type ListLinksResponse struct {
	Body struct {
		Count int           `doc:"Number of links" json:"count"`
		Links []LinkSummary `doc:"The links"       json:"links"`
	}
}

// AnalyticsRequest is the request for a link's usage report.
type AnalyticsRequest struct {
	Code string `doc:"The short code" example:"abc1234" path:"code"`
}

// ClickEventBody is one recorded click in an analytics report.
type ClickEventBody struct {
	Timestamp time.Time `doc:"Click time"                 json:"timestamp"`
	IPAddress string    `doc:"Client IP, captured as-is"  json:"ipAddress,omitempty"`
	UserAgent string    `doc:"User agent, captured as-is" json:"userAgent,omitempty"`
	Referrer  string    `doc:"Referrer, captured as-is"   json:"referrer,omitempty"`
}

// AnalyticsResponse is a link's usage report.
type AnalyticsResponse struct {
	Body struct {
		OriginalURL  string           `doc:"The original URL"                     json:"originalUrl"`
		Code         string           `doc:"The short code"                       json:"shortCode"`
		TotalClicks  int64            `doc:"Total recorded clicks"                json:"totalClicks"`
		CreatedAt    time.Time        `doc:"Creation time"                        json:"createdAt"`
		ClickHistory []ClickEventBody `doc:"All recorded clicks, oldest first"    json:"clickHistory"`
		ClicksByDate map[string]int   `doc:"Clicks grouped by UTC calendar day"   json:"clicksByDate"`
	}
}

// LinkIDRequest addresses a link by its durable identifier.
type LinkIDRequest struct {
	ID string `doc:"Durable link identifier" path:"id"`
}

// ConfirmationResponse confirms a deactivate or delete.
type ConfirmationResponse struct {
	Body struct {
		Message string `doc:"Confirmation message" json:"message"`
	}
}
