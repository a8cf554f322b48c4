package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher publishes schedule and assessment events.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// WatermillEventPublisher sends events through any watermill publisher.
type WatermillEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topic     string
}

type PublisherConfig struct {
	KafkaBrokers []string
	Topic        string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher creates a publisher backed by watermill-kafka.
func NewKafkaEventPublisher(config PublisherConfig) (*WatermillEventPublisher, error) {
	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, watermill.NewSlogLogger(config.Logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}
	return NewWatermillEventPublisher(publisher, config.Topic, config.Logger), nil
}

// NewChannelEventPublisher creates an in-process publisher. The returned
// GoChannel can be subscribed to on the same topic.
func NewChannelEventPublisher(config PublisherConfig) (*WatermillEventPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(config.Logger))
	return NewWatermillEventPublisher(pubSub, config.Topic, config.Logger), pubSub
}

func NewWatermillEventPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillEventPublisher {
	return &WatermillEventPublisher{
		publisher: publisher,
		logger:    logger,
		topic:     topic,
	}
}

func (p *WatermillEventPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("Published event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topic)
	return nil
}

func (p *WatermillEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher keeps events in memory. Safe for concurrent use.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		events: make([]Event, 0),
		logger: logger,
	}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *Event) error {
	m.mu.Lock()
	m.events = append(m.events, *event)
	m.mu.Unlock()

	m.logger.Debug("Mock: published event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	m.events = make([]Event, 0)
	m.mu.Unlock()
}
