// Package kafka publishes goldbook change events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/goldbook"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher is a goldbook.Publisher writing JSON events to a topic. Events
// are keyed by ledger so that one ledger's changes keep their order.
type Publisher struct {
	writer messageWriter
}

// NewPublisher returns a publisher on topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// message builds the Kafka message of e.
func message(e goldbook.Event) (kafka.Message, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	key := e.Unit
	if key == "" {
		key = string(e.Kind)
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  e.At,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(e.ID)},
			{Key: "kind", Value: []byte(e.Kind)},
		},
	}, nil
}

// Publish implements goldbook.Publisher.
func (p *Publisher) Publish(ctx context.Context, e goldbook.Event) error {
	msg, err := message(e)
	if err != nil {
		return fmt.Errorf("cannot encode event %s: %w", e.ID, err)
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("cannot publish event %s: %w", e.Kind, err)
	}
	return nil
}

// Close flushes pending messages.
func (p *Publisher) Close() error { return p.writer.Close() }

var _ goldbook.Publisher = (*Publisher)(nil)
