package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"crackexam-backend/config"
)

// SMTPSender delivers notifications directly over SMTP.
type SMTPSender struct {
	host      string
	port      string
	username  string
	password  string
	recipient string
}

// NewSMTPSender creates an SMTP mail transport from configuration.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{
		host:      cfg.Mail.SMTPHost,
		port:      cfg.Mail.SMTPPort,
		username:  cfg.Mail.Username,
		password:  cfg.Mail.Password,
		recipient: cfg.Mail.Recipient,
	}
}

func (s *SMTPSender) Send(ctx context.Context, req Request) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.username)
	fmt.Fprintf(&msg, "To: %s\r\n", s.recipient)
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", req.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", Subject(req))
	fmt.Fprintf(&msg, "\r\n%s", Body(req))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := s.host + ":" + s.port

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, s.username, []string{s.recipient}, []byte(msg.String()))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail: %w", ctx.Err())
	}
}
