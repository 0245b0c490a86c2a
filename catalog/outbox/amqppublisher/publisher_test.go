package amqppublisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/catalog/outbox"
	"github.com/AntonStoeckl/library-reservations-go/catalog/outbox/amqppublisher"
)

var _ outbox.Publisher = (*amqppublisher.Publisher)(nil)

func Test_NewPublisher_DeclaresDurableTopicExchange(t *testing.T) {
	// arrange
	channel := &channelSpy{}

	// act
	_, err := amqppublisher.NewPublisher(channel, "library.catalog")

	// assert
	require.NoError(t, err)
	require.Len(t, channel.declared, 1)
	assert.Equal(t, "library.catalog", channel.declared[0].name)
	assert.Equal(t, "topic", channel.declared[0].kind)
	assert.True(t, channel.declared[0].durable)
}

func Test_NewPublisher_Validation(t *testing.T) {
	// act
	_, errNilChannel := amqppublisher.NewPublisher(nil, "library.catalog")
	_, errEmptyExchange := amqppublisher.NewPublisher(&channelSpy{}, "")
	_, errDeclare := amqppublisher.NewPublisher(&channelSpy{declareErr: errors.New("access refused")}, "library.catalog")

	// assert
	assert.ErrorIs(t, errNilChannel, amqppublisher.ErrNilChannel)
	assert.ErrorIs(t, errEmptyExchange, amqppublisher.ErrEmptyExchangeName)
	assert.ErrorIs(t, errDeclare, amqppublisher.ErrBrokerUnavailable)
}

func Test_Publisher_Publish_UsesEventTypeAsRoutingKey(t *testing.T) {
	// arrange
	channel := &channelSpy{}
	publisher, err := amqppublisher.NewPublisher(channel, "library.catalog")
	require.NoError(t, err)

	event := givenBookReservedEvent(t)

	// act
	err = publisher.Publish(context.Background(), event)

	// assert
	require.NoError(t, err)
	require.Len(t, channel.published, 1)

	published := channel.published[0]
	assert.Equal(t, "library.catalog", published.exchange)
	assert.Equal(t, catalog.BookReservedEventType, published.key)
	assert.Equal(t, "application/json", published.msg.ContentType)
	assert.Equal(t, amqp.Persistent, published.msg.DeliveryMode)
	assert.Equal(t, event.ID.String(), published.msg.MessageId)
	assert.Equal(t, event.EventType, published.msg.Type)
	assert.Equal(t, event.Payload, published.msg.Body)
	assert.Equal(t, event.AggregateID.String(), published.msg.Headers["aggregate_id"])
	assert.True(t, event.OccurredAt.Equal(published.msg.Timestamp))
}

func Test_Publisher_Publish_WrapsBrokerErrors(t *testing.T) {
	// arrange
	channel := &channelSpy{publishErr: amqp.ErrClosed}
	publisher, err := amqppublisher.NewPublisher(channel, "library.catalog")
	require.NoError(t, err)

	// act
	err = publisher.Publish(context.Background(), givenBookReservedEvent(t))

	// assert
	assert.ErrorIs(t, err, amqppublisher.ErrBrokerUnavailable)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func Test_Publisher_Close_ClosesChannel(t *testing.T) {
	// arrange
	channel := &channelSpy{}
	publisher, err := amqppublisher.NewPublisher(channel, "library.catalog")
	require.NoError(t, err)

	// act
	err = publisher.Close()

	// assert
	require.NoError(t, err)
	assert.True(t, channel.closed)
}

func givenBookReservedEvent(t *testing.T) catalog.DomainEvent {
	t.Helper()

	reservation := catalog.Reservation{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		BookID:          uuid.New(),
		ReservationDate: time.Now().UTC(),
		Status:          catalog.StatusActive,
	}

	event, err := catalog.BuildBookReserved(reservation, 2)
	require.NoError(t, err)

	return event
}

type declaredExchange struct {
	name    string
	kind    string
	durable bool
}

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type channelSpy struct {
	declared   []declaredExchange
	published  []publishedMessage
	declareErr error
	publishErr error
	closed     bool
}

func (c *channelSpy) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if c.declareErr != nil {
		return c.declareErr
	}

	c.declared = append(c.declared, declaredExchange{name: name, kind: kind, durable: durable})

	return nil
}

func (c *channelSpy) PublishWithContext(
	_ context.Context,
	exchange, key string,
	_, _ bool,
	msg amqp.Publishing,
) error {

	if c.publishErr != nil {
		return c.publishErr
	}

	c.published = append(c.published, publishedMessage{exchange: exchange, key: key, msg: msg})

	return nil
}

func (c *channelSpy) Close() error {
	c.closed = true
	return nil
}
