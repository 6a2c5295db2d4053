package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher sends escalations to a Kafka topic, keyed by conversation
// id so all escalations of one conversation land on the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher writing to the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishEscalation implements EscalationPublisher.
func (p *KafkaPublisher) PublishEscalation(ctx context.Context, esc Escalation) error {
	data, err := json.Marshal(esc)
	if err != nil {
		return fmt.Errorf("encode escalation: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(esc.ConversationID),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish escalation: %w", err)
	}
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
