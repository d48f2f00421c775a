// Package events publishes order lifecycle notifications to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event types emitted by the order workflow.
const (
	OrderCreated  = "order.created"
	OrderApproved = "order.approved"
	OrderRejected = "order.rejected"
)

// OrderEvent is the JSON payload written for every order transition.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Status        string    `json:"status"`
	TotalAmount   string    `json:"total_amount"`
	BookIDs       []string  `json:"book_ids,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher delivers order events.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events through one long-lived kafka writer.
type KafkaPublisher struct {
	writer messageWriter
}

// flushInterval bounds how long a single event waits for a batch to fill.
const flushInterval = 10 * time.Millisecond

// NewKafkaPublisher builds a writer for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           flushInterval,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// Publish writes the event keyed by order id so one order's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.OrderID), Value: payload}); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }
