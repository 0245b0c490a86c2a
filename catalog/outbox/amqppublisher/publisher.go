package amqppublisher

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
)

const (
	exchangeKind      = "topic"
	contentTypeJSON   = "application/json"
	headerAggregateID = "aggregate_id"
	defaultAppID      = "library-reservations"
)

var (
	// ErrBrokerUnavailable wraps failures to connect to the broker or to publish.
	ErrBrokerUnavailable = errors.New("message broker is unavailable")

	// ErrNilChannel is returned when no AMQP channel is supplied.
	ErrNilChannel = errors.New("amqp channel must not be nil")

	// ErrEmptyExchangeName is returned when no exchange name is supplied.
	ErrEmptyExchangeName = errors.New("empty exchange name supplied")
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements outbox.Publisher on a durable topic exchange.
type Publisher struct {
	channel  Channel
	conn     *amqp.Connection
	exchange string
}

// Dial connects to the broker at url, opens a channel and declares the exchange.
func Dial(url string, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Join(ErrBrokerUnavailable, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Join(ErrBrokerUnavailable, err)
	}

	publisher, err := NewPublisher(channel, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	publisher.conn = conn

	return publisher, nil
}

// NewPublisher declares the exchange on an already opened channel.
func NewPublisher(channel Channel, exchange string) (*Publisher, error) {
	if channel == nil {
		return nil, ErrNilChannel
	}

	if exchange == "" {
		return nil, ErrEmptyExchangeName
	}

	if err := channel.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return nil, errors.Join(ErrBrokerUnavailable, err)
	}

	return &Publisher{channel: channel, exchange: exchange}, nil
}

// Publish sends the event with its type as routing key.
func (p *Publisher) Publish(ctx context.Context, event catalog.DomainEvent) error {
	err := p.channel.PublishWithContext(ctx, p.exchange, event.EventType, false, false, Message(event))
	if err != nil {
		return errors.Join(ErrBrokerUnavailable, err)
	}

	return nil
}

// Close closes the channel and, if the publisher was dialed, the connection.
func (p *Publisher) Close() error {
	err := p.channel.Close()

	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}

	return err
}

// Message maps a domain event to an AMQP message.
func Message(event catalog.DomainEvent) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Type:         event.EventType,
		AppId:        defaultAppID,
		Timestamp:    event.OccurredAt,
		Headers: amqp.Table{
			headerAggregateID: event.AggregateID.String(),
		},
		Body: event.Payload,
	}
}
