// Command mailer consumes queued newsdesk emails and relays them over SMTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsdesk/config"
	"newsdesk/helper"
	"newsdesk/notifications"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", helper.Err(err))
		os.Exit(1)
	}
	logger := helper.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, logger); err != nil {
		logger.Error("mailer stopped", helper.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := notifications.Dial(cfg.AMQP.URL, 5, 2*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := notifications.SetupChannel(conn, cfg.AMQP)
	if err != nil {
		return err
	}
	defer ch.Close()

	deliveries, err := ch.Consume(cfg.AMQP.Queue, "newsdesk-mailer", false, false, false, false, nil)
	if err != nil {
		return err
	}

	relay := notifications.NewRelay(notifications.NewSMTPSender(cfg.Mail), logger)
	logger.Info("mailer consuming", slog.String("queue", cfg.AMQP.Queue))
	relay.Run(ctx, deliveries)

	logger.Info("mailer shutting down")
	return nil
}
