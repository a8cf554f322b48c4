package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/assessment-scheduler/internal/events"
)

// EventConfig selects where schedule and assessment events go.
type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka, memory or mock
	KafkaBrokers string
	Topic        string
}

func (c *EventConfig) GetKafkaBrokers() []string {
	brokers := strings.Split(c.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// CreateEventPublisher builds the configured publisher. Unknown kinds fall back to the mock.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic)
		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			Topic:        c.Topic,
			Logger:       logger,
		})
	case "memory":
		logger.Info("Using in-process event publisher", "topic", c.Topic)
		publisher, _ := events.NewChannelEventPublisher(events.PublisherConfig{
			Topic:  c.Topic,
			Logger: logger,
		})
		return publisher, nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
