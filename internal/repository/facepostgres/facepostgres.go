package facepostgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/UnendingLoop/FaceRecognizer/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

// Save appends the event to the journal. false means an event with the same event_uid is already stored.
func (p PostgresRepo) Save(ctx context.Context, ev *model.FaceEvent) (bool, error) {
	query := `INSERT INTO face_events (event_uid, event_type, status, external_id, similarity, snapshot_key, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (event_uid) DO NOTHING
	RETURNING event_uid`

	var uid string
	err := p.DB.QueryRowContext(ctx, query,
		ev.UID,
		ev.Type,
		ev.Status,
		nullable(ev.ExternalID),
		ev.Similarity,
		nullable(ev.SnapshotKey),
		ev.OccurredAt,
	).Scan(&uid)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return false, nil // дубль, уже в журнале
		default:
			return false, err
		}
	}

	return true, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
