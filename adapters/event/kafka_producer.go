package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/allandacasin/devconnector-api/internal/config"
)

const (
	TopicProfileEvents = "profile.events"
	TopicAccountEvents = "account.events"
	TopicPostEvents    = "post.events"
)

const (
	ProfileEventTypeUpserted = "profile.upserted"
	AccountEventTypeDeleted  = "account.deleted"
	PostEventTypeCreated     = "post.created"
)

type DomainEvent struct {
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	EntityID  string    `json:"entity_id,omitempty"`
	At        time.Time `json:"at"`
}

type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
	AccountEventsWriter *kafka.Writer
	PostEventsWriter    *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}
	}

	return &KafkaProducerClient{
		ProfileEventsWriter: newWriter(TopicProfileEvents),
		AccountEventsWriter: newWriter(TopicAccountEvents),
		PostEventsWriter:    newWriter(TopicPostEvents),
	}, nil
}

func (c *KafkaProducerClient) publish(ctx context.Context, w *kafka.Writer, ev DomainEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.UserID),
		Value: payload,
	})
}

func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, ev DomainEvent) error {
	return c.publish(ctx, c.ProfileEventsWriter, ev)
}

func (c *KafkaProducerClient) PublishAccountEvent(ctx context.Context, ev DomainEvent) error {
	return c.publish(ctx, c.AccountEventsWriter, ev)
}

func (c *KafkaProducerClient) PublishPostEvent(ctx context.Context, ev DomainEvent) error {
	return c.publish(ctx, c.PostEventsWriter, ev)
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		c.ProfileEventsWriter.Close()
	}
	if c.AccountEventsWriter != nil {
		c.AccountEventsWriter.Close()
	}
	if c.PostEventsWriter != nil {
		c.PostEventsWriter.Close()
	}
}
