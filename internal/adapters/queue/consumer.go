package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
)

const (
	minReadBackoff = 500 * time.Millisecond
	maxReadBackoff = 30 * time.Second
)

// messageReader is the part of kafka.Reader the consumer uses.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads welcome notifications and passes them to a delivering Notifier.
type Consumer struct {
	reader         messageReader
	handler        portssvc.Notifier
	logger         *slog.Logger
	handlerTimeout time.Duration
	minBackoff     time.Duration
	maxBackoff     time.Duration
}

func NewConsumer(brokers []string, topic string, groupID string, creds Credentials, handler portssvc.Notifier, logger *slog.Logger) *Consumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if creds.Username != "" {
		dialer.SASLMechanism = plain.Mechanism{Username: creds.Username, Password: creds.Password}
		dialer.TLS = &tls.Config{}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return &Consumer{
		reader:         reader,
		handler:        handler,
		logger:         logger,
		handlerTimeout: 30 * time.Second,
		minBackoff:     minReadBackoff,
		maxBackoff:     maxReadBackoff,
	}
}

// Listen blocks until ctx is cancelled or the reader is closed. Delivery failures
// are logged and the message is not retried. Read failures back off exponentially.
func (c *Consumer) Listen(ctx context.Context) error {
	backoff := c.minBackoff
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Error("Failed to read welcome message",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, c.maxBackoff)
			continue
		}
		backoff = c.minBackoff
		c.handle(ctx, msg.Value)
	}
}

func (c *Consumer) handle(ctx context.Context, value []byte) {
	n, err := decodeWelcome(value)
	if err != nil {
		c.logger.Warn("Dropping malformed welcome message", slog.String("error", err.Error()))
		return
	}

	hctx, cancel := context.WithTimeout(ctx, c.handlerTimeout)
	defer cancel()
	if err := c.handler.Notify(hctx, n); err != nil {
		c.logger.Error("Failed to deliver welcome notification",
			slog.String("user_id", n.UserID),
			slog.String("error", err.Error()))
		return
	}
	c.logger.Info("Welcome notification delivered", slog.String("user_id", n.UserID))
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
