package analytics

import "time"

// TopicClickRecorded carries clicks recorded off the hot redirect path.
const TopicClickRecorded = "link.click.recorded"

// ClickRecordedEvent is emitted when a cached redirect is served. Delivery is
// at-most-once, best-effort: the redirect never waits for it and nothing
// retries it.
type ClickRecordedEvent struct {
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}
