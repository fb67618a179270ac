package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"newsdesk/config"
	"newsdesk/models"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func sampleArticle() *models.Article {
	return &models.Article{
		ID:        12,
		Title:     "Moon landing",
		Author:    models.User{Username: "clark", Email: "clark@example.com"},
		Publisher: models.Publisher{Name: "Daily Planet"},
	}
}

func TestNotifier_ArticleApproved(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "desk@example.com")

	require.NoError(t, n.ArticleApproved(context.Background(), sampleArticle()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "Article approved: Moon landing", msg.Subject)
	assert.Equal(t, []string{"clark@example.com"}, msg.To)
	assert.Equal(t, "desk@example.com", msg.From)
	assert.Contains(t, msg.Body, "Hi clark,")
	assert.Contains(t, msg.Body, "Publisher: Daily Planet")
}

func TestNotifier_NewArticle(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "desk@example.com")
	url := "http://news.test/articles/12/"

	require.NoError(t, n.NewArticle(context.Background(), sampleArticle(), []string{"a@x.test", "b@x.test"}, url))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "New article from Daily Planet: Moon landing", msg.Subject)
	assert.Equal(t, []string{"a@x.test", "b@x.test"}, msg.To)
	assert.Contains(t, msg.Body, "Author: clark")
	assert.Contains(t, msg.Body, "Read it here: "+url)

	require.NoError(t, n.NewArticle(context.Background(), sampleArticle(), nil, url))
	assert.Len(t, sender.sent, 1, "no recipients means no message")
}

func TestNotifier_ArticleRejected(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "desk@example.com")

	a := sampleArticle()
	require.NoError(t, n.ArticleRejected(context.Background(), a))
	assert.Contains(t, sender.sent[0].Body, "Reason:\nNo reason provided.")

	a.DecisionReason = "Unverified claims"
	require.NoError(t, n.ArticleRejected(context.Background(), a))
	assert.Equal(t, "Article rejected: Moon landing", sender.sent[1].Subject)
	assert.Contains(t, sender.sent[1].Body, "Reason:\nUnverified claims")
}

func TestNotifier_AuthorWithoutEmail(t *testing.T) {
	sender := &recordingSender{}
	a := sampleArticle()
	a.Author.Email = ""

	assert.Error(t, NewNotifier(sender, "x").ArticleApproved(context.Background(), a))
	assert.Empty(t, sender.sent)
}

func TestSMTPSender(t *testing.T) {
	s := NewSMTPSender(config.MailConfig{SMTPHost: "mail.test", SMTPPort: "2525", SMTPUser: "u", SMTPPassword: "p"})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		assert.NotNil(t, a)
		return nil
	}

	err := s.Send(context.Background(), Message{Subject: "Hi", Body: "line1\nline2", From: "desk@x.test", To: []string{"a@x.test", "b@x.test"}})
	require.NoError(t, err)

	assert.Equal(t, "mail.test:2525", gotAddr)
	assert.Equal(t, "desk@x.test", gotFrom)
	assert.Equal(t, []string{"a@x.test", "b@x.test"}, gotTo)
	body := string(gotBody)
	assert.Contains(t, body, "Subject: Hi\r\n")
	assert.Contains(t, body, "To: undisclosed-recipients:;\r\n")
	assert.True(t, strings.HasSuffix(body, "line1\r\nline2"))
}

func TestSMTPSender_WrapsErrors(t *testing.T) {
	s := NewSMTPSender(config.MailConfig{SMTPHost: "mail.test", SMTPPort: "25"})
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := s.Send(context.Background(), Message{To: []string{"a@x.test"}})
	assert.ErrorContains(t, err, "refused")
}

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestQueueSender_PublishesJSON(t *testing.T) {
	ch := &fakeChannel{}
	s := NewQueueSender(ch, config.AMQPConfig{Exchange: "mail", RoutingKey: "mail.send"})

	msg := Message{Subject: "S", Body: "B", From: "f@x.test", To: []string{"t@x.test"}}
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "mail", ch.exchange)
	assert.Equal(t, "mail.send", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)

	var decoded Message
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, msg, decoded)
}

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeue = true, requeue
	return nil
}
func (f *fakeAcknowledger) Reject(uint64, bool) error { return nil }

func TestRelay_AcksNacksAndDrops(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	body, err := json.Marshal(Message{Subject: "S", To: []string{"t@x.test"}})
	require.NoError(t, err)

	ok := &recordingSender{}
	ack := &fakeAcknowledger{}
	NewRelay(ok, logger).process(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})
	assert.True(t, ack.acked)
	require.Len(t, ok.sent, 1)
	assert.Equal(t, "S", ok.sent[0].Subject)

	failing := &recordingSender{err: errors.New("smtp down")}
	ack = &fakeAcknowledger{}
	NewRelay(failing, logger).process(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)

	ack = &fakeAcknowledger{}
	NewRelay(ok, logger).process(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestRelay_RunStopsWhenChannelCloses(t *testing.T) {
	deliveries := make(chan amqp.Delivery, 1)
	sender := &recordingSender{}
	ack := &fakeAcknowledger{}
	deliveries <- amqp.Delivery{Acknowledger: ack, Body: []byte(`{"subject":"queued","to":["a@x.test"]}`)}
	close(deliveries)

	NewRelay(sender, slog.New(slog.NewTextHandler(io.Discard, nil))).Run(context.Background(), deliveries)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "queued", sender.sent[0].Subject)
	assert.True(t, ack.acked)
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, s.Send(context.Background(), Message{Subject: "Hello", To: []string{"a@x.test"}}))
	assert.Contains(t, buf.String(), `"subject":"Hello"`)
}
