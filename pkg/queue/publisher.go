// Package queue publishes domain events to RabbitMQ. Publishing is a
// best-effort side channel: errors are logged and returned, never allowed to
// interrupt the booking flow that triggered them.
package queue

import (
	"context"
	"encoding/json"
	"time"

	"movie-reservation/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SeatsChangedEvent is published whenever a commit or release mutates the
// seat map of a showtime. Consumers (seat-selection broadcast, analytics)
// get enough to react without querying the primary database.
type SeatsChangedEvent struct {
	ShowtimeID  string   `json:"showtime_id"`
	SeatNumbers []string `json:"seat_numbers"`
	ChangedAt   string   `json:"changed_at"`
}

type Publisher struct {
	url   string
	queue string
	log   *zap.Logger
}

func NewPublisher(config utils.RabbitMQConfig, log *zap.Logger) *Publisher {
	return &Publisher{
		url:   config.URL,
		queue: config.Queue,
		log:   log.With(zap.String("component", "queue_publisher")),
	}
}

// NotifySeatsChanged publishes a SeatsChangedEvent. A fresh connection per
// publish keeps the publisher robust against broker restarts; messages are
// marked persistent.
func (p *Publisher) NotifySeatsChanged(ctx context.Context, showtimeID string, seatNumbers []string) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	event := SeatsChangedEvent{
		ShowtimeID:  showtimeID,
		SeatNumbers: seatNumbers,
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.log.Warn("rabbitmq publish failed", zap.Error(err))
		return err
	}

	return nil
}
