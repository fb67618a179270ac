// Package notifications builds and delivers the emails sent after editorial
// decisions.
package notifications

import (
	"context"
	"log/slog"
	"strings"
)

// Message is one outbound email.
type Message struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	From    string   `json:"from"`
	To      []string `json:"to"`
}

// Sender delivers a Message. Implementations may block on network I/O.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("email",
		slog.String("subject", msg.Subject),
		slog.String("from", msg.From),
		slog.String("to", strings.Join(msg.To, ", ")),
		slog.String("body", msg.Body),
	)
	return nil
}
