// Package amqp publishes notifications to a RabbitMQ exchange consumed by
// the push-delivery worker.
package amqp

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
)

var _ ports.Publisher = (*Publisher)(nil)

// Publisher fans notification messages out through a durable fanout exchange.
type Publisher struct {
	channel  *amqp.Channel
	exchange string
}

// NewPublisher declares the exchange and returns a publisher bound to it.
func NewPublisher(channel *amqp.Channel, exchange string) (*Publisher, error) {
	if err := channel.ExchangeDeclare(
		exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, err
	}
	return &Publisher{channel: channel, exchange: exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, message ports.Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Body:         body,
		},
	)
}
