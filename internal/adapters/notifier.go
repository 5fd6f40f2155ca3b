// Package adapters selects the outbound adapters named by configuration.
package adapters

import (
	"fmt"
	"strconv"

	"github.com/SscSPs/trakmymedia/internal/adapters/mail"
	"github.com/SscSPs/trakmymedia/internal/adapters/queue"
	portssvc "github.com/SscSPs/trakmymedia/internal/core/ports/services"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
)

// NewSMTPMailer builds the SMTP mailer from configuration.
func NewSMTPMailer(cfg *config.Config) (*mail.SMTPMailer, error) {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", cfg.SMTPPort, err)
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     port,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     sender(cfg),
		AppURL:   cfg.FrontendBaseURL,
	}), nil
}

func sender(cfg *config.Config) mail.Sender {
	return mail.Sender{Address: cfg.MailFrom, Name: cfg.MailFromName}
}

// KafkaCredentials returns the SASL credentials for the welcome topic.
func KafkaCredentials(cfg *config.Config) queue.Credentials {
	return queue.Credentials{Username: cfg.KafkaUsername, Password: cfg.KafkaPassword}
}

// NewWelcomeNotifier returns the transport selected by cfg.Notifier and a close
// function to run on shutdown.
func NewWelcomeNotifier(cfg *config.Config) (portssvc.Notifier, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Notifier {
	case config.NotifierSMTP:
		mailer, err := NewSMTPMailer(cfg)
		if err != nil {
			return nil, noop, err
		}
		return mailer, noop, nil
	case config.NotifierKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, noop, fmt.Errorf("kafka notifier requires KAFKA_BROKERS")
		}
		producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, KafkaCredentials(cfg))
		return producer, producer.Close, nil
	default:
		return mail.NewLogMailer(sender(cfg), cfg.FrontendBaseURL), noop, nil
	}
}
