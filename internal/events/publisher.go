package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// EventPublisher defines the interface for publishing session events.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, event *SessionEvent) error
	Close() error
}

// WatermillEventPublisher implements EventPublisher on a Watermill publisher.
// In-process subscribers (audit log, metrics) attach through the same pub/sub.
type WatermillEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the event publisher.
type PublisherConfig struct {
	TopicName string
	Logger    *slog.Logger
}

// NewGoChannelEventPublisher creates an in-process event publisher using the
// Watermill gochannel pub/sub. The returned pub/sub is also the subscriber
// side for any component that wants to consume session events.
func NewGoChannelEventPublisher(config PublisherConfig) (*WatermillEventPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(config.Logger),
	)

	return &WatermillEventPublisher{
		publisher: pubSub,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, pubSub
}

// NewEvent builds the envelope for a payload, stamping ID and timestamp.
func NewEvent(eventType EventType, data any) *SessionEvent {
	return &SessionEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "session-service",
		Data:      data,
	}
}

// PublishSessionEvent publishes one event to the session topic.
func (p *WatermillEventPublisher) PublishSessionEvent(ctx context.Context, event *SessionEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish session event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	return nil
}

// Close closes the publisher and releases resources.
func (p *WatermillEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	Events []SessionEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{Events: make([]SessionEvent, 0)}
}

func (m *MockEventPublisher) PublishSessionEvent(_ context.Context, event *SessionEvent) error {
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// ByType returns the recorded events matching eventType.
func (m *MockEventPublisher) ByType(eventType EventType) []SessionEvent {
	var matched []SessionEvent
	for _, e := range m.Events {
		if e.Type == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}
