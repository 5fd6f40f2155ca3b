// Command tmm_mailer consumes welcome notifications published by the API with
// NOTIFIER=kafka and delivers them over SMTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/trakmymedia/internal/adapters"
	"github.com/SscSPs/trakmymedia/internal/adapters/queue"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(cfg.KafkaBrokers) == 0 {
		logger.Error("KAFKA_BROKERS must be set for the mailer")
		os.Exit(1)
	}

	mailer, err := adapters.NewSMTPMailer(cfg)
	if err != nil {
		logger.Error("Failed to configure SMTP mailer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, adapters.KafkaCredentials(cfg), mailer, logger)
	defer func() {
		if cerr := consumer.Close(); cerr != nil {
			logger.Error("Error closing consumer", slog.String("error", cerr.Error()))
		}
	}()

	logger.Info("Mailer listening for welcome notifications",
		slog.String("topic", cfg.KafkaTopic),
		slog.String("group_id", cfg.KafkaGroupID))
	if err := consumer.Listen(ctx); err != nil {
		logger.Error("Mailer stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Mailer stopped")
}
