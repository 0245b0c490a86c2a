// Package amqppublisher publishes outbox events to a RabbitMQ topic exchange using rabbitmq/amqp091-go.
//
// The routing key is the event type, e.g. "BookReserved", so consumers bind queues per event type
// or with a "#" wildcard. Messages are persistent and carry the event id as message id.
package amqppublisher
