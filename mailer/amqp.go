package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	emailExchange   = "email_exchange"
	emailRoutingKey = "email.notification"
)

// emailMessage is the job published for a downstream mail worker.
type emailMessage struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	ReplyTo   string `json:"replyTo,omitempty"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
}

// AMQPSender publishes notification jobs to a message broker instead of
// sending mail inline; a separate worker owns actual delivery.
type AMQPSender struct {
	channel   *amqp.Channel
	recipient string
}

// NewAMQPSender connects to the broker and opens a publishing channel.
func NewAMQPSender(amqpURL, recipient string) (*AMQPSender, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open broker channel: %w", err)
	}
	return &AMQPSender{channel: ch, recipient: recipient}, nil
}

func (s *AMQPSender) Send(ctx context.Context, req Request) error {
	body, err := json.Marshal(emailMessage{
		Type:      "notification",
		Recipient: s.recipient,
		ReplyTo:   req.Email,
		Subject:   Subject(req),
		Content:   Body(req),
	})
	if err != nil {
		return fmt.Errorf("marshal email message: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		emailExchange,
		emailRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish email message: %w", err)
	}
	return nil
}
