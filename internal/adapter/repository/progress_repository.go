package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/eslsoft/parcours/internal/entity"
	"github.com/eslsoft/parcours/internal/repository"
)

// ProgressRepository persists one snapshot document per user with an
// optimistic version check on every write.
type ProgressRepository struct {
	db      *sql.DB
	dialect string
}

// NewProgressRepository wraps a database handle. dialect is the sql driver
// name ("sqlite3" or "postgres") and selects the placeholder style.
func NewProgressRepository(db *sql.DB, dialect string) repository.ProgressRepository {
	return &ProgressRepository{db: db, dialect: dialect}
}

// placeholder returns the n-th (1-based) statement parameter marker.
func (r *ProgressRepository) placeholder(n int) string {
	if r.dialect == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (r *ProgressRepository) Load(ctx context.Context, userID string) (*entity.ProgressSnapshot, error) {
	query := `SELECT snapshot, version FROM user_progress WHERE user_id = ` + r.placeholder(1)

	var raw string
	var version int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw, &version)
	if err == sql.ErrNoRows {
		// First use: the engine starts every user from an empty snapshot.
		return entity.NewProgressSnapshot(userID), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load progress snapshot")
	}

	var snapshot entity.ProgressSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, errors.Wrapf(err, "decode progress snapshot for user %s", userID)
	}
	snapshot.UserID = userID
	snapshot.Version = version
	snapshot.Normalize()
	return &snapshot, nil
}

func (r *ProgressRepository) Save(ctx context.Context, snapshot *entity.ProgressSnapshot, expectedVersion int64) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode progress snapshot")
	}
	now := time.Now().UTC()

	if expectedVersion == 0 {
		return r.insert(ctx, snapshot, raw, now)
	}

	query := `UPDATE user_progress SET snapshot = ` + r.placeholder(1) +
		`, version = ` + r.placeholder(2) +
		`, updated_at = ` + r.placeholder(3) +
		` WHERE user_id = ` + r.placeholder(4) +
		` AND version = ` + r.placeholder(5)
	result, err := r.db.ExecContext(ctx, query, string(raw), snapshot.Version, now, snapshot.UserID, expectedVersion)
	if err != nil {
		return errors.Wrap(err, "save progress snapshot")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "save progress snapshot: rows affected")
	}
	if affected == 0 {
		return r.conflict(ctx, snapshot.UserID, expectedVersion)
	}
	return nil
}

func (r *ProgressRepository) insert(ctx context.Context, snapshot *entity.ProgressSnapshot, raw []byte, now time.Time) error {
	// A concurrent first write loses by primary-key conflict, which surfaces
	// as a version conflict so the engine replays against the winner's row.
	verb := `INSERT OR IGNORE`
	if r.dialect == "postgres" {
		verb = `INSERT`
	}
	query := verb + ` INTO user_progress (user_id, snapshot, version, updated_at) VALUES (` +
		r.placeholder(1) + `, ` + r.placeholder(2) + `, ` + r.placeholder(3) + `, ` + r.placeholder(4) + `)`
	if r.dialect == "postgres" {
		query += ` ON CONFLICT (user_id) DO NOTHING`
	}
	result, err := r.db.ExecContext(ctx, query, snapshot.UserID, string(raw), snapshot.Version, now)
	if err != nil {
		return errors.Wrap(err, "insert progress snapshot")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "insert progress snapshot: rows affected")
	}
	if affected == 0 {
		return r.conflict(ctx, snapshot.UserID, 0)
	}
	return nil
}

// conflict builds the stale-write error with the version the store actually holds.
func (r *ProgressRepository) conflict(ctx context.Context, userID string, expected int64) error {
	var actual int64
	query := `SELECT version FROM user_progress WHERE user_id = ` + r.placeholder(1)
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&actual); err != nil && err != sql.ErrNoRows {
		return errors.Wrap(err, "read conflicting version")
	}
	return &entity.VersionConflictError{UserID: userID, Expected: expected, Actual: actual}
}

func (r *ProgressRepository) List(ctx context.Context, query *repository.ListProgressQuery) ([]entity.ProgressSnapshot, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_progress`).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "count progress snapshots")
	}

	stmt := `SELECT user_id, snapshot, version FROM user_progress ORDER BY user_id`
	args := []any{}
	if query != nil && query.PageSize > 0 {
		stmt += ` LIMIT ` + r.placeholder(1) + ` OFFSET ` + r.placeholder(2)
		args = append(args, query.PageSize, query.Offset())
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list progress snapshots")
	}
	defer rows.Close()

	var snapshots []entity.ProgressSnapshot
	for rows.Next() {
		var userID, raw string
		var version int64
		if err := rows.Scan(&userID, &raw, &version); err != nil {
			return nil, 0, errors.Wrap(err, "scan progress snapshot")
		}
		var snapshot entity.ProgressSnapshot
		if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
			return nil, 0, errors.Wrapf(err, "decode progress snapshot for user %s", userID)
		}
		snapshot.UserID = userID
		snapshot.Version = version
		snapshot.Normalize()
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "iterate progress snapshots")
	}
	return snapshots, total, nil
}
