package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Conn bundles an AMQP connection with its channel so callers can close both.
type Conn struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

// Connect dials the broker and opens a channel.
func Connect(url string) (*Conn, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}
	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("opening rabbitmq channel: %w", err)
	}
	return &Conn{Connection: connection, Channel: channel}, nil
}

// Close releases the channel first, then the connection.
func (c *Conn) Close() {
	if c == nil {
		return
	}
	if c.Channel != nil {
		_ = c.Channel.Close()
	}
	if c.Connection != nil {
		_ = c.Connection.Close()
	}
}
