package store

import (
	"context"
	"errors"

	"github.com/serroba/linkshort/internal/analytics"
	"github.com/serroba/linkshort/internal/shortener"
	"go.uber.org/zap"
)

// ClickSink applies click events from the message pipeline to a LinkStore
// using its atomic increment-and-append.
type ClickSink struct {
	store  shortener.LinkStore
	logger *zap.Logger
}

// NewClickSink creates a sink over the given link store.
func NewClickSink(store shortener.LinkStore, logger *zap.Logger) *ClickSink {
	return &ClickSink{store: store, logger: logger}
}

// ApplyClick records one click. Clicks for codes that no longer exist are
// dropped: the link was deleted after the event was published, and delivery
// is at-most-once anyway.
func (s *ClickSink) ApplyClick(ctx context.Context, event *analytics.ClickRecordedEvent) error {
	click := shortener.ClickEvent{
		Timestamp: event.Timestamp,
		IPAddress: event.IPAddress,
		UserAgent: event.UserAgent,
		Referrer:  event.Referrer,
	}

	err := s.store.IncrementClickAndAppend(ctx, shortener.Code(event.Code), click)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			s.logger.Debug("dropping click for missing link",
				zap.String("code", event.Code),
			)

			return nil
		}

		return err
	}

	return nil
}

// Compile-time check.
var _ analytics.Sink = (*ClickSink)(nil)
