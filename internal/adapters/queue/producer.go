package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/SscSPs/trakmymedia/internal/core/domain"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
)

// Credentials enable SASL/PLAIN over TLS when Username is set.
type Credentials struct {
	Username string
	Password string
}

// Producer hands welcome notifications to the mailer worker through a Kafka topic.
type Producer struct {
	writer *kafka.Writer
}

var _ portssvc.Notifier = (*Producer)(nil)

func NewProducer(brokers []string, topic string, creds Credentials) *Producer {
	transport := &kafka.Transport{}
	if creds.Username != "" {
		transport.SASL = plain.Mechanism{Username: creds.Username, Password: creds.Password}
		transport.TLS = &tls.Config{}
	}

	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			Transport:    transport,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Notify publishes the notification keyed by user id. It succeeds once the broker
// acknowledged the write, not once the email went out.
func (p *Producer) Notify(ctx context.Context, n domain.WelcomeNotification) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka producer not ready")
	}
	value, err := encodeWelcome(n)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.UserID),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish welcome notification: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
