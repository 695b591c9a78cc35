package mailer

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"crackexam-backend/config"
)

// Request describes a paper request submitted by a visitor.
type Request struct {
	College string `json:"college"`
	Degree  string `json:"degree"`
	Stream  string `json:"stream"`
	Subject string `json:"subject"`
	Year    string `json:"year"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Sender dispatches a paper-request notification to the site operator.
type Sender interface {
	Send(ctx context.Context, req Request) error
}

// New builds the mail transport selected by configuration. A nil Sender with
// a nil error means no transport is configured and callers should fall back
// to a client-composable mailto link.
func New(cfg *config.Config) (Sender, error) {
	switch cfg.Mail.Transport {
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "amqp":
		return NewAMQPSender(cfg.Mail.AMQPURL, cfg.Mail.Recipient)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown mail transport: %s", cfg.Mail.Transport)
	}
}

// Subject formats the notification subject line.
func Subject(req Request) string {
	return fmt.Sprintf("Paper Request: %s (%s)", req.Subject, req.College)
}

// Body formats the notification body.
func Body(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A visitor requested an exam paper.\n\n")
	fmt.Fprintf(&b, "College: %s\n", req.College)
	fmt.Fprintf(&b, "Degree: %s\n", req.Degree)
	fmt.Fprintf(&b, "Stream: %s\n", req.Stream)
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	fmt.Fprintf(&b, "Year: %s\n", req.Year)
	fmt.Fprintf(&b, "\nRequester: %s\n", req.Email)
	if req.Message != "" {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", req.Message)
	}
	return b.String()
}

// MailtoLink composes the fallback mailto URL the client can open itself
// when no server-side transport is configured.
func MailtoLink(recipient string, req Request) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		recipient, escape(Subject(req)), escape(Body(req)))
}

// escape matches encodeURIComponent semantics: query escaping with literal
// %20 for spaces, which mail clients handle more reliably than '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
