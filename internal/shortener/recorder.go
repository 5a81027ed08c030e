package shortener

import (
	"context"
	"time"

	"github.com/serroba/linkshort/internal/analytics"
	"github.com/serroba/linkshort/internal/messaging"
	"go.uber.org/zap"
)

// detachedTimeout bounds the in-process fallback write for detached clicks.
const detachedTimeout = 5 * time.Second

// ClickRecorder appends click events and increments counters. A failure to
// record a click is logged and never prevents or delays the redirect.
type ClickRecorder struct {
	store        LinkStore
	publishClick messaging.Publish[analytics.ClickRecordedEvent] // nil when no broker is configured
	logger       *zap.Logger
}

// NewClickRecorder creates a click recorder. publishClick may be nil, in
// which case detached clicks are written by an in-process goroutine with the
// same at-most-once semantics.
func NewClickRecorder(
	store LinkStore,
	publishClick messaging.Publish[analytics.ClickRecordedEvent],
	logger *zap.Logger,
) *ClickRecorder {
	return &ClickRecorder{
		store:        store,
		publishClick: publishClick,
		logger:       logger,
	}
}

// RecordLoaded records a click against an already-loaded link, blocking until
// the write completes. The store write is the atomic increment-and-append;
// the loaded copy's counter is bumped so the caller sees a consistent count
// without a reload.
func (r *ClickRecorder) RecordLoaded(ctx context.Context, link *ShortLink, event ClickEvent) {
	if err := r.store.IncrementClickAndAppend(ctx, link.Code, event); err != nil {
		r.logger.Error("failed to record click",
			zap.String("code", string(link.Code)),
			zap.Error(err),
		)

		return
	}

	link.ClickCount++
}

// RecordDetached records a click without blocking the caller. The event is
// published to the click pipeline when a broker is configured, otherwise
// written by a detached goroutine. Either way it is fire-and-forget: failures
// are logged and the click may be lost.
func (r *ClickRecorder) RecordDetached(code Code, event ClickEvent) {
	if r.publishClick != nil {
		msg := &analytics.ClickRecordedEvent{
			Code:      string(code),
			Timestamp: event.Timestamp,
			IPAddress: event.IPAddress,
			UserAgent: event.UserAgent,
			Referrer:  event.Referrer,
		}

		if err := r.publishClick(msg); err != nil {
			r.logger.Error("failed to publish click event",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), detachedTimeout)
		defer cancel()

		if err := r.store.IncrementClickAndAppend(ctx, code, event); err != nil {
			r.logger.Error("failed to record detached click",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}
	}()
}
