package analytics

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/linkshort/internal/messaging"
	"go.uber.org/zap"
)

// Sink applies recorded clicks to durable storage.
type Sink interface {
	ApplyClick(ctx context.Context, event *ClickRecordedEvent) error
}

// NewClickConsumer creates a consumer that drains the click topic into the
// sink.
func NewClickConsumer(
	subscriber message.Subscriber,
	sink Sink,
	logger *zap.Logger,
) *messaging.Consumer[ClickRecordedEvent] {
	handler := func(ctx context.Context, event *ClickRecordedEvent) error {
		return sink.ApplyClick(ctx, event)
	}

	return messaging.NewConsumer(subscriber, TopicClickRecorded, handler, logger)
}
