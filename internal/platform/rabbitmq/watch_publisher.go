package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"vidtube/internal/model"
)

type WatchPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewWatchPublisher(conn *amqp.Connection, queueName string) *WatchPublisher {
	return &WatchPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *WatchPublisher) Publish(ctx context.Context, entry model.WatchEntry) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal watch event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish watch event failed: %w", err)
	}
	return nil
}
