// Package events provides background delivery of face events: snapshot archiving and publishing to the queue.
// Delivery is best-effort and never blocks the request that produced the event.
package events

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/UnendingLoop/FaceRecognizer/internal/mwlogger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Publisher - контракт для работы с очередью
type Publisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// SnapshotStorage - контракт для работы с хранилищем снимков
type SnapshotStorage interface {
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

// Стратегия ретрая отправки в очередь
var retryStrategy = retry.Strategy{
	Attempts: 5,
	Delay:    2 * time.Second,
	Backoff:  1.5,
}

const drainTimeout = 10 * time.Second

type job struct {
	event    model.FaceEvent
	snapshot []byte
	logger   zlog.Zerolog
}

type Dispatcher struct {
	jobs           chan job
	publisher      Publisher
	storage        SnapshotStorage
	snapshotPrefix string
}

// NewDispatcher - любой из приемников может быть nil, тогда он пропускается
func NewDispatcher(pub Publisher, strg SnapshotStorage, snapshotPrefix string, buffer int) *Dispatcher {
	return &Dispatcher{
		jobs:           make(chan job, buffer),
		publisher:      pub,
		storage:        strg,
		snapshotPrefix: snapshotPrefix,
	}
}

// Emit enqueues the event without blocking; false means the queue is full and the event was dropped.
func (d *Dispatcher) Emit(ctx context.Context, ev model.FaceEvent, snapshot []byte) bool {
	if d == nil {
		return true
	}

	select {
	case d.jobs <- job{event: ev, snapshot: snapshot, logger: mwlogger.LoggerFromContext(ctx)}:
		return true
	default:
		return false
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is left within drainTimeout.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case j := <-d.jobs:
			d.handle(ctx, j)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case j := <-d.jobs:
			d.handle(ctx, j)
		default:
			return
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, j job) {
	ev := j.event

	// снимок кладем только вместе с событием регистрации
	if d.storage != nil && len(j.snapshot) > 0 {
		mt := mimetype.Detect(j.snapshot)
		key := d.snapshotPrefix + ev.ExternalID + "/" + ev.UID.String() + mt.Extension()

		if err := d.storage.Put(ctx, key, int64(len(j.snapshot)), mt.String(), bytes.NewReader(j.snapshot)); err != nil {
			j.logger.Error().Err(err).Str("key", key).Msg("Failed to archive snapshot in Storage")
		} else {
			ev.SnapshotKey = key
		}
	}

	if d.publisher == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		j.logger.Error().Err(err).Msg("Failed to marshal face event")
		return
	}

	if err := d.publisher.SendWithRetry(ctx, retryStrategy, []byte(ev.UID.String()), payload); err != nil {
		j.logger.Error().Err(err).Str("event_uid", ev.UID.String()).Msg("Failed to publish face event to queue")
	}
}
