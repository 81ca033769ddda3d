package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange session notices are published to.
const DefaultExchange = "session_updates"

// AMQPSink publishes notices to RabbitMQ with routing key session.<id>.
type AMQPSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	exchange string
}

// DialAMQP connects to RabbitMQ and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPSink, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPSink{conn: conn, exchange: exchange}, nil
}

// Deliver publishes one notice.
func (s *AMQPSink) Deliver(ctx context.Context, n Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ch, err := s.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		s.exchange,
		RoutingKey(n.SessionID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   n.At,
			Body:        body,
		},
	)
}

// Close closes the broker connection.
func (s *AMQPSink) Close() error {
	return s.conn.Close()
}

// RoutingKey is the topic key for a session's notices.
func RoutingKey(sessionID string) string {
	if sessionID == "" {
		return "session.none"
	}
	return fmt.Sprintf("session.%s", sessionID)
}

var _ Sink = (*AMQPSink)(nil)
