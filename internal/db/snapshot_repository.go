package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/rtsloco/internal/model"
)

// Snapshot is one unit's persisted state: the locomotor snapshot stream plus
// the object placement and order needed to resume it.
type Snapshot struct {
	SessionID   uuid.UUID
	ObjectID    uint32
	Name        string
	Template    string
	Data        []byte
	Frame       uint32
	Position    model.Coord3D
	Orientation float64
	Goal        model.Coord3D
	SavedAt     time.Time
}

// SnapshotRepository handles snapshot CRUD operations.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Save upserts one snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, s Snapshot) error {
	_, err := r.pool.Exec(ctx, upsertSnapshotSQL, snapshotArgs(s)...)
	if err != nil {
		return fmt.Errorf("saving snapshot %s/%d: %w", s.SessionID, s.ObjectID, err)
	}
	return nil
}

// SaveAll upserts every snapshot in one transaction.
func (r *SnapshotRepository) SaveAll(ctx context.Context, snaps []Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, s := range snaps {
		batch.Queue(upsertSnapshotSQL, snapshotArgs(s)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving %d snapshots: %w", len(snaps), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing snapshots: %w", err)
	}
	slog.Info("snapshots saved", "session", snaps[0].SessionID, "count", len(snaps))
	return nil
}

// LoadSession returns every snapshot of a session ordered by object ID.
func (r *SnapshotRepository) LoadSession(ctx context.Context, sessionID uuid.UUID) ([]Snapshot, error) {
	query := `
		SELECT session_id, object_id, name, template, data, frame,
		       x, y, z, orientation, goal_x, goal_y, saved_at
		FROM locomotor_snapshots
		WHERE session_id = $1
		ORDER BY object_id
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	defer rows.Close()

	snaps := make([]Snapshot, 0, 16)
	for rows.Next() {
		var (
			s        Snapshot
			objectID int64
			frame    int64
		)
		if err := rows.Scan(&s.SessionID, &objectID, &s.Name, &s.Template, &s.Data, &frame,
			&s.Position.X, &s.Position.Y, &s.Position.Z, &s.Orientation,
			&s.Goal.X, &s.Goal.Y, &s.SavedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		s.ObjectID = uint32(objectID)
		s.Frame = uint32(frame)
		snaps = append(snaps, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot rows: %w", err)
	}
	return snaps, nil
}

// DeleteSession removes every snapshot of a session and returns how many were removed.
func (r *SnapshotRepository) DeleteSession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM locomotor_snapshots WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	return tag.RowsAffected(), nil
}

const upsertSnapshotSQL = `
	INSERT INTO locomotor_snapshots
		(session_id, object_id, name, template, data, frame,
		 x, y, z, orientation, goal_x, goal_y, saved_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (session_id, object_id) DO UPDATE SET
		name = EXCLUDED.name,
		template = EXCLUDED.template,
		data = EXCLUDED.data,
		frame = EXCLUDED.frame,
		x = EXCLUDED.x,
		y = EXCLUDED.y,
		z = EXCLUDED.z,
		orientation = EXCLUDED.orientation,
		goal_x = EXCLUDED.goal_x,
		goal_y = EXCLUDED.goal_y,
		saved_at = EXCLUDED.saved_at
`

func snapshotArgs(s Snapshot) []any {
	savedAt := s.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	return []any{
		s.SessionID, int64(s.ObjectID), s.Name, s.Template, s.Data, int64(s.Frame),
		s.Position.X, s.Position.Y, s.Position.Z, s.Orientation,
		s.Goal.X, s.Goal.Y, savedAt,
	}
}
