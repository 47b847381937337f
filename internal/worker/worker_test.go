package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
)

var testStrategy = retry.Strategy{Attempts: 3, Delay: time.Millisecond, Backoff: 1}

func eventMessage(t *testing.T, ev model.FaceEvent) kafkago.Message {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafkago.Message{Key: []byte(ev.UID.String()), Value: data}
}

func validEvent() model.FaceEvent {
	return model.FaceEvent{
		UID:        uuid.New(),
		Type:       model.EventRegistered,
		Status:     model.StatusSuccess,
		ExternalID: "Bob",
		OccurredAt: time.Now().UTC(),
	}
}

func TestDecodeEvent(t *testing.T) {
	ok := validEvent()

	noUID := validEvent()
	noUID.UID = uuid.Nil

	badType := validEvent()
	badType.Type = "deleted"

	badStatus := validEvent()
	badStatus.Status = "weird"

	noTime := validEvent()
	noTime.OccurredAt = time.Time{}

	tests := []struct {
		name    string
		event   *model.FaceEvent
		raw     []byte
		wantErr bool
	}{
		{name: "valid", event: &ok},
		{name: "not json", raw: []byte("{oops"), wantErr: true},
		{name: "missing uid", event: &noUID, wantErr: true},
		{name: "unknown type", event: &badType, wantErr: true},
		{name: "unknown status", event: &badStatus, wantErr: true},
		{name: "missing time", event: &noTime, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.raw
			if tt.event != nil {
				var err error
				raw, err = json.Marshal(tt.event)
				require.NoError(t, err)
			}

			ev, err := decodeEvent(raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadEvent)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.event.UID, ev.UID)
			require.Equal(t, "Bob", ev.ExternalID)
		})
	}
}

func TestWorker_StartWorker(t *testing.T) {
	good := eventMessage(t, validEvent())
	dup := eventMessage(t, validEvent())
	failing := eventMessage(t, validEvent())
	broken := kafkago.Message{Key: []byte("x"), Value: []byte("not-json")}

	var failingUID model.FaceEvent
	require.NoError(t, json.Unmarshal(failing.Value, &failingUID))
	var dupUID model.FaceEvent
	require.NoError(t, json.Unmarshal(dup.Value, &dupUID))

	journal := &mockJournal{
		saveFn: func(ctx context.Context, ev *model.FaceEvent) (bool, error) {
			switch ev.UID {
			case failingUID.UID:
				return false, errors.New("db down")
			case dupUID.UID:
				return false, nil
			default:
				return true, nil
			}
		},
	}
	committer := &mockCommitter{}

	queue := make(chan kafkago.Message, 4)
	queue <- good
	queue <- broken
	queue <- failing
	queue <- dup
	close(queue)

	w := NewWorkerInstance(journal, queue, committer, testStrategy)
	w.StartWorker(context.Background())

	// good + dup по одному разу, failing - все попытки стратегии
	require.Equal(t, 2+testStrategy.Attempts, journal.calls)
	require.Equal(t, []kafkago.Message{good, broken, dup}, committer.committed)
}

func TestWorker_StartWorker_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorkerInstance(&mockJournal{}, make(chan kafkago.Message), &mockCommitter{}, testStrategy)

	done := make(chan struct{})
	go func() {
		w.StartWorker(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_StartWorker_RetriesSaveInPlace(t *testing.T) {
	msg := eventMessage(t, validEvent())
	next := eventMessage(t, validEvent())

	var first model.FaceEvent
	require.NoError(t, json.Unmarshal(msg.Value, &first))

	failures := 2
	var order []uuid.UUID
	journal := &mockJournal{
		saveFn: func(ctx context.Context, ev *model.FaceEvent) (bool, error) {
			order = append(order, ev.UID)
			if ev.UID == first.UID && failures > 0 {
				failures--
				return false, errors.New("db down")
			}
			return true, nil
		},
	}
	committer := &mockCommitter{}

	queue := make(chan kafkago.Message, 2)
	queue <- msg
	queue <- next
	close(queue)

	NewWorkerInstance(journal, queue, committer, testStrategy).StartWorker(context.Background())

	// следующее сообщение не трогается, пока не записано текущее
	require.Len(t, order, 4)
	require.Equal(t, []uuid.UUID{first.UID, first.UID, first.UID}, order[:3])
	require.Equal(t, []kafkago.Message{msg, next}, committer.committed)
}

func TestWorker_saveWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	journal := &mockJournal{
		saveFn: func(ctx context.Context, ev *model.FaceEvent) (bool, error) {
			cancel()
			return false, errors.New("db down")
		},
	}
	w := NewWorkerInstance(journal, nil, &mockCommitter{}, retry.Strategy{Attempts: 5, Delay: time.Hour, Backoff: 2})

	ev := validEvent()
	_, err := w.saveWithRetry(ctx, &ev)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, journal.calls)
}
