package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"auction-engine/utils"

	"github.com/segmentio/kafka-go"
)

var ErrPublisherFull = errors.New("events: publisher buffer full")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues envelopes in memory and writes them from Run.
// Publish never waits on the broker.
type KafkaPublisher struct {
	w            messageWriter
	inbox        chan kafka.Message
	writeTimeout time.Duration
}

// NewKafkaPublisher creates a publisher for one topic with a buffer of buf messages
func NewKafkaPublisher(brokers []string, topic string, buf int) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, buf)
}

func newKafkaPublisher(w messageWriter, buf int) *KafkaPublisher {
	if buf <= 0 {
		buf = 1
	}
	return &KafkaPublisher{
		w:            w,
		inbox:        make(chan kafka.Message, buf),
		writeTimeout: 5 * time.Second,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   PartitionKey(env),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
		},
	}

	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrPublisherFull
	}
}

// Run writes queued messages until ctx is done, then flushes what is left
// and closes the writer.
func (p *KafkaPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.flush()
			if err := p.w.Close(); err != nil {
				return fmt.Errorf("close kafka writer: %w", err)
			}
			return nil
		case m := <-p.inbox:
			p.write(context.Background(), m)
		}
	}
}

func (p *KafkaPublisher) flush() {
	for {
		select {
		case m := <-p.inbox:
			p.write(context.Background(), m)
		default:
			return
		}
	}
}

func (p *KafkaPublisher) write(ctx context.Context, m kafka.Message) {
	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.w.WriteMessages(ctx, m); err != nil {
		utils.Error("events: kafka write failed", map[string]any{
			"key":   string(m.Key),
			"error": err.Error(),
		})
	}
}
