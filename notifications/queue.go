package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsdesk/config"
	"newsdesk/helper"

	"github.com/streadway/amqp"
)

// Publisher is the part of *amqp.Channel used to enqueue mail.
type Publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// QueueSender enqueues messages for cmd/mailer instead of sending them.
type QueueSender struct {
	ch         Publisher
	exchange   string
	routingKey string
}

func NewQueueSender(ch Publisher, cfg config.AMQPConfig) *QueueSender {
	return &QueueSender{ch: ch, exchange: cfg.Exchange, routingKey: cfg.RoutingKey}
}

func (s *QueueSender) Send(_ context.Context, msg Message) error {
	const op = "notifications.QueueSender.Send"
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.ch.Publish(s.exchange, s.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Dial connects to the broker, retrying a fixed number of times.
func Dial(url string, retries int, delay time.Duration) (*amqp.Connection, error) {
	var err error
	for i := 0; i < retries; i++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("notifications.Dial: %w", err)
}

// SetupChannel declares the mail exchange and queue and binds them.
func SetupChannel(conn *amqp.Connection, cfg config.AMQPConfig) (*amqp.Channel, error) {
	const op = "notifications.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: qos: %w", op, err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: declare queue %s: %w", op, cfg.Queue, err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("%s: bind queue %s: %w", op, cfg.Queue, err)
	}
	return ch, nil
}

// Relay moves queued messages to a real Sender.
type Relay struct {
	sender Sender
	log    *slog.Logger
}

func NewRelay(sender Sender, log *slog.Logger) *Relay {
	return &Relay{sender: sender, log: log}
}

// Handle decodes and sends a single queued message. Malformed payloads are
// reported with ErrMalformed so the caller can drop them instead of
// requeueing.
func (r *Relay) Handle(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return r.sender.Send(ctx, msg)
}

var ErrMalformed = errors.New("malformed mail message")

// Run consumes deliveries until ctx is done or the channel closes. Failed
// sends are requeued; malformed messages are discarded.
func (r *Relay) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			r.process(ctx, d)
		}
	}
}

func (r *Relay) process(ctx context.Context, d amqp.Delivery) {
	err := r.Handle(ctx, d.Body)
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			r.log.Error("failed to ack message", helper.Err(ackErr))
		}
	case errors.Is(err, ErrMalformed):
		r.log.Warn("dropping malformed message", helper.Err(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			r.log.Error("failed to nack message", helper.Err(nackErr))
		}
	default:
		r.log.Error("relay send failed", helper.Err(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			r.log.Error("failed to nack message", helper.Err(nackErr))
		}
	}
}
