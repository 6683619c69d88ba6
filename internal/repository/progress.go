package repository

import (
	"context"

	"github.com/eslsoft/parcours/internal/entity"
)

// ProgressRepository abstracts durable per-user progression state to keep the
// engine storage agnostic. Load returns a fresh empty snapshot for a user the
// store has never seen; snapshots are never deleted.
//
// Save persists the snapshot only if the stored version still equals
// expectedVersion, returning *entity.VersionConflictError otherwise. The
// engine reloads and replays on conflict; its append-only mutations make the
// replay safe.
type ProgressRepository interface {
	Load(ctx context.Context, userID string) (*entity.ProgressSnapshot, error)
	Save(ctx context.Context, snapshot *entity.ProgressSnapshot, expectedVersion int64) error
	List(ctx context.Context, query *ListProgressQuery) ([]entity.ProgressSnapshot, int64, error)
}
