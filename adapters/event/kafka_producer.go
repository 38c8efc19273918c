package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/financial-frontier/backend/internal/config"
)

const (
	TopicUserEvents = "user.events"

	UserEventTypeOnboarded = "user.onboarded"
)

// UserEventPayload is the message published to 'user.events'. The worker
// consumes it to warm the stats cache; nothing downstream depends on delivery.
type UserEventPayload struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	UserID         string    `json:"user_id"`
	StartingSector string    `json:"starting_sector"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type KafkaProducerClient struct {
	UserEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	userWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicUserEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{UserEventsWriter: userWriter}, nil
}

func (c *KafkaProducerClient) PublishUserEvent(ctx context.Context, payload UserEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(payload.UserID),
		Value: value,
	}

	if err := c.UserEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish user event: %w", err)
	}

	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.UserEventsWriter != nil {
		c.UserEventsWriter.Close()
	}
}
