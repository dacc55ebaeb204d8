package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"vidtube/internal/model"
	"vidtube/internal/repository"
)

// WatchPersistWorker drains watch events from the broker and appends them to
// the watch-history table. Watch recording is fire-and-forget on the request
// path; this worker is the only writer of watch entries.
type WatchPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.WatchRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWatchPersistWorker(conn *amqp.Connection, repo *repository.WatchRepository, queueName string) *WatchPersistWorker {
	return &WatchPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *WatchPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var entry model.WatchEntry
				if err := json.Unmarshal(d.Body, &entry); err != nil {
					log.Printf("worker decode watch event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Append(workerCtx, &entry); err != nil {
					log.Printf("worker persist watch entry failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *WatchPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
