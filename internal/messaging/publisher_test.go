package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/linkshort/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

type clickedEvent struct {
	Code string `json:"code"`
	IP   string `json:"ip"`
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("marshals and publishes to the bound topic", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[clickedEvent](mock, "link.click.recorded")

		err := publish(&clickedEvent{Code: "abc1234", IP: "192.168.1.1"})

		require.NoError(t, err)
		assert.Equal(t, "link.click.recorded", mock.topic)
		require.Len(t, mock.messages, 1)
		assert.Contains(t, string(mock.messages[0].Payload), `"code":"abc1234"`)
		assert.NotEmpty(t, mock.messages[0].UUID)
	})

	t.Run("returns error when publish fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[clickedEvent](mock, "link.click.recorded")

		err := publish(&clickedEvent{Code: "abc1234"})

		assert.Error(t, err)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("returns underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shutdown closes the publisher", func(t *testing.T) {
		group := messaging.NewPublisherGroup(&mockPublisher{})

		require.NoError(t, group.Shutdown())
	})

	t.Run("returns error when close fails", func(t *testing.T) {
		group := messaging.NewPublisherGroup(&mockPublisher{closeErr: errors.New("close error")})

		assert.Error(t, group.Shutdown())
	})
}
