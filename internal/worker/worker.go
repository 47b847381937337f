// Package worker contains the journal worker: it reads face events from the queue and stores them in DB
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// ErrBadEvent - сообщение не удалось разобрать, повторная обработка не поможет
var ErrBadEvent = errors.New("undecodable face event")

type EventJournal interface {
	Save(ctx context.Context, ev *model.FaceEvent) (bool, error)
}

type Committer interface {
	Commit(ctx context.Context, msg kafkago.Message) error
}

type Worker struct {
	journal  EventJournal
	queue    <-chan kafkago.Message
	consumer Committer
	strategy retry.Strategy
}

// NewWorkerInstance - strategy задает повторы записи в БД, сообщение не отпускается пока они не исчерпаны
func NewWorkerInstance(j EventJournal, q <-chan kafkago.Message, cons Committer, strategy retry.Strategy) *Worker {
	return &Worker{journal: j, queue: q, consumer: cons, strategy: strategy}
}

func (w *Worker) StartWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.queue:
			if !ok {
				zlog.Logger.Info().Msg("Queue channel closed, stopping worker...")
				return
			}

			err := w.processMessage(ctx, msg)
			switch {
			case err == nil:
			case errors.Is(err, ErrBadEvent):
				// битое сообщение коммитим, иначе оно будет читаться бесконечно
				zlog.Logger.Error().Err(err).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Skipping face event")
			default:
				// следующий коммит сдвинет оффсет дальше, так что событие остается только в логе
				zlog.Logger.Error().Err(err).Str("key", string(msg.Key)).Bytes("payload", msg.Value).Msg("Face event lost: journal retries exhausted")
				continue
			}

			if err := w.consumer.Commit(ctx, msg); err != nil {
				zlog.Logger.Error().Err(err).Msg("Failed to commit queue-message")
			}
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, msg kafkago.Message) error {
	ev, err := decodeEvent(msg.Value)
	if err != nil {
		return err
	}

	inserted, err := w.saveWithRetry(ctx, ev)
	if err != nil {
		return fmt.Errorf("worker failed to save event %q to DB: %w", ev.UID, err)
	}
	if !inserted {
		zlog.Logger.Debug().Str("event_uid", ev.UID.String()).Msg("Face event already journaled")
	}

	return nil
}

func (w *Worker) saveWithRetry(ctx context.Context, ev *model.FaceEvent) (bool, error) {
	attempts := max(w.strategy.Attempts, 1)
	delay := w.strategy.Delay

	var lastErr error
	for i := 0; i < attempts; i++ {
		inserted, err := w.journal.Save(ctx, ev)
		if err == nil {
			return inserted, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}

		zlog.Logger.Warn().Err(err).Str("event_uid", ev.UID.String()).Int("attempt", i+1).Dur("retry_in", delay).Msg("Failed to save face event, retrying")
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
		if w.strategy.Backoff > 1 {
			delay = time.Duration(float64(delay) * w.strategy.Backoff)
		}
	}

	return false, lastErr
}

func decodeEvent(data []byte) (*model.FaceEvent, error) {
	var ev model.FaceEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEvent, err)
	}

	switch {
	case ev.UID == uuid.Nil:
		return nil, fmt.Errorf("%w: missing event_uid", ErrBadEvent)
	case ev.Type != model.EventRegistered && ev.Type != model.EventRecognized:
		return nil, fmt.Errorf("%w: unknown type %q", ErrBadEvent, ev.Type)
	case !model.StatusMap[ev.Status]:
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadEvent, ev.Status)
	case ev.OccurredAt.IsZero():
		return nil, fmt.Errorf("%w: missing occurred_at", ErrBadEvent)
	}

	return &ev, nil
}
