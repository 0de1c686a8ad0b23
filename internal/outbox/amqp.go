package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"talenttrack-backend/internal/config"
	"talenttrack-backend/internal/model"
)

// AMQPTransport publishes intents to a RabbitMQ exchange. The consumer on
// the other side performs the actual email/SMS delivery; de-duplication
// by intent id is its responsibility.
type AMQPTransport struct {
	cfg     config.AMQPConfig
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewAMQPTransport connects to the broker and declares the exchange.
func NewAMQPTransport(cfg config.AMQPConfig, logger *slog.Logger) (*AMQPTransport, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("AMQP transport initialized",
		slog.String("exchange", cfg.Exchange),
	)

	return &AMQPTransport{
		cfg:     cfg,
		conn:    conn,
		channel: channel,
		logger:  logger,
	}, nil
}

// Send publishes the intent as a persistent JSON message. The message id
// is the intent id so consumers can de-duplicate.
func (t *AMQPTransport) Send(ctx context.Context, intent *model.NotificationIntent) error {
	body, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("failed to encode intent: %w", err)
	}

	routingKey := t.cfg.RoutingKey
	if routingKey == "" {
		routingKey = "notifications." + intent.Category
	}

	err = t.channel.PublishWithContext(
		ctx,
		t.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    intent.ID.String(),
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish intent: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (t *AMQPTransport) Close() error {
	if err := t.channel.Close(); err != nil {
		return err
	}
	return t.conn.Close()
}
