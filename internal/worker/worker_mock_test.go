package worker

import (
	"context"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	kafkago "github.com/segmentio/kafka-go"
)

type mockJournal struct {
	saveFn func(ctx context.Context, ev *model.FaceEvent) (bool, error)
	calls  int
}

func (m *mockJournal) Save(ctx context.Context, ev *model.FaceEvent) (bool, error) {
	m.calls++
	return m.saveFn(ctx, ev)
}

//----------------------------------

type mockCommitter struct {
	committed []kafkago.Message
}

func (m *mockCommitter) Commit(ctx context.Context, msg kafkago.Message) error {
	m.committed = append(m.committed, msg)
	return nil
}
