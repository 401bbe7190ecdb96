package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"peerpay/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RoutingKeyTransferCompleted is published once per committed transfer
const RoutingKeyTransferCompleted = "transfer.completed"

// RabbitMQPublisher publishes ledger events to a topic exchange
type RabbitMQPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewRabbitMQPublisher dials the broker and declares the exchange
func NewRabbitMQPublisher(url, exchange string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("📨 RabbitMQ publisher ready: exchange=%s", exchange)

	return &RabbitMQPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// PublishTransfer publishes a transfer.completed event
func (p *RabbitMQPublisher) PublishTransfer(ctx context.Context, event domain.TransferEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		RoutingKeyTransferCompleted,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.TransferID.String(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher drops events when no broker is configured
type NoopPublisher struct{}

func (NoopPublisher) PublishTransfer(context.Context, domain.TransferEvent) error { return nil }
func (NoopPublisher) Close() error                                              { return nil }
