package main

import (
	"context"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
)

// JournalRepository - то, что воркеру нужно от хранилища событий
type JournalRepository interface {
	Save(ctx context.Context, ev *model.FaceEvent) (bool, error)
}
