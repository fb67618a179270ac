package notifications

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"newsdesk/config"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	addr     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPSender{
		addr:     net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.sendMail(s.addr, s.auth, msg.From, msg.To, formatMessage(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", s.addr, err)
	}
	return nil
}

// formatMessage renders headers and body as an RFC 5322 message. Recipients
// of bulk messages are not listed in the headers.
func formatMessage(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	if len(msg.To) == 1 {
		fmt.Fprintf(&b, "To: %s\r\n", msg.To[0])
	} else {
		b.WriteString("To: undisclosed-recipients:;\r\n")
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}
