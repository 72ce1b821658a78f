package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// publisher is the part of *amqp091.Channel the notifier uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPNotifier publishes messages as JSON events on a topic exchange, routed
// by Message.Kind.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	ch       publisher
	exchange string
	timeout  time.Duration
	now      func() time.Time
}

// DialAMQP connects to the broker and declares the durable topic exchange.
func DialAMQP(cfg AMQPConfig) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}

	n := newAMQPNotifier(ch, cfg)
	n.conn = conn
	return n, nil
}

func newAMQPNotifier(ch publisher, cfg AMQPConfig) *AMQPNotifier {
	return &AMQPNotifier{ch: ch, exchange: cfg.Exchange, timeout: cfg.Timeout, now: time.Now}
}

// event is the published body.
type event struct {
	Kind      string         `json:"kind"`
	To        string         `json:"to"`
	ToName    string         `json:"to_name,omitempty"`
	Subject   string         `json:"subject"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (n *AMQPNotifier) Notify(ctx context.Context, msg Message) error {
	err := n.publish(ctx, msg)
	observe("amqp", msg, err)
	return err
}

func (n *AMQPNotifier) publish(ctx context.Context, msg Message) error {
	now := n.now()
	body, err := json.Marshal(event{
		Kind:      msg.Kind,
		To:        msg.To,
		ToName:    msg.ToName,
		Subject:   msg.Subject,
		Data:      msg.Data,
		Timestamp: now.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	err = n.ch.PublishWithContext(ctx, n.exchange, msg.Kind, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    now,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", msg.Kind, err)
	}
	return nil
}

// Close closes the channel and, when dialed, the connection.
func (n *AMQPNotifier) Close() error {
	err := n.ch.Close()
	if n.conn != nil {
		if cerr := n.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
