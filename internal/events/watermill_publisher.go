package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const DefaultTopic = "assessment-authoring.events"

// WatermillPublisher publishes events as JSON messages on a single topic
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewKafkaEventPublisher creates a publisher backed by Kafka
func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) (*WatermillPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return newWatermillPublisher(publisher, topic, logger), nil
}

// NewInMemoryEventPublisher creates a publisher on an in-process channel.
// The returned GoChannel can be used to subscribe to the same topic.
func NewInMemoryEventPublisher(topic string, logger *slog.Logger) (*WatermillPublisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)
	return newWatermillPublisher(pubSub, topic, logger), pubSub
}

func newWatermillPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

func (p *WatermillPublisher) Topic() string {
	return p.topic
}

// Publish marshals the event and publishes it keyed by its ID
func (p *WatermillPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("Failed to publish event", "error", err, "event_type", event.Type, "event_id", event.ID)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published", "event_type", event.Type, "event_id", event.ID, "topic", p.topic)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}

// LogEvents subscribes to topic and logs every event until ctx is done.
// Used with the in-memory publisher so events stay visible without Kafka.
func LogEvents(ctx context.Context, subscriber message.Subscriber, topic string, logger *slog.Logger) error {
	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			logger.Info("Event received",
				"event_id", msg.UUID,
				"event_type", msg.Metadata.Get("event_type"),
				"payload_bytes", len(msg.Payload),
			)
			msg.Ack()
		}
	}()

	return nil
}
