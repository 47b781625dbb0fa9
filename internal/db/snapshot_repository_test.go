package db_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/rtsloco/internal/db"
	"github.com/udisondev/rtsloco/internal/model"
	"github.com/udisondev/rtsloco/internal/testutil"
)

func TestSnapshotRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool := testutil.SetupTestDB(t)
	repo := db.NewSnapshotRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	session := uuid.New()
	other := uuid.New()

	first := db.Snapshot{
		SessionID:   session,
		ObjectID:    7,
		Name:        "tank",
		Template:    "BasicTreads",
		Data:        []byte{1, 2, 3},
		Frame:       120,
		Position:    model.Coord3D{X: 10, Y: 20, Z: 1.5},
		Orientation: 0.75,
		Goal:        model.Coord3D{X: 300, Y: 40},
	}

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, db.Snapshot{
			SessionID: other, ObjectID: 1, Template: "BasicLegs", Data: []byte{9},
		}))

		got, err := repo.LoadSession(ctx, session)
		require.NoError(t, err)
		require.Len(t, got, 1)

		s := got[0]
		assert.Equal(t, session, s.SessionID)
		assert.Equal(t, uint32(7), s.ObjectID)
		assert.Equal(t, "tank", s.Name)
		assert.Equal(t, "BasicTreads", s.Template)
		assert.Equal(t, []byte{1, 2, 3}, s.Data)
		assert.Equal(t, uint32(120), s.Frame)
		assert.Equal(t, first.Position, s.Position)
		assert.InDelta(t, 0.75, s.Orientation, 1e-9)
		assert.Equal(t, 300.0, s.Goal.X)
		assert.False(t, s.SavedAt.IsZero())
	})

	t.Run("save overwrites", func(t *testing.T) {
		updated := first
		updated.Data = []byte{4, 5}
		updated.Frame = 240
		require.NoError(t, repo.Save(ctx, updated))

		got, err := repo.LoadSession(ctx, session)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, []byte{4, 5}, got[0].Data)
		assert.Equal(t, uint32(240), got[0].Frame)
	})

	t.Run("save all orders by object", func(t *testing.T) {
		batch := []db.Snapshot{
			{SessionID: session, ObjectID: 30, Template: "BasicLegs", Data: []byte{3}},
			{SessionID: session, ObjectID: 2, Template: "BasicWheels", Data: []byte{2}},
		}
		require.NoError(t, repo.SaveAll(ctx, batch))
		require.NoError(t, repo.SaveAll(ctx, nil))

		got, err := repo.LoadSession(ctx, session)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []uint32{2, 7, 30}, []uint32{got[0].ObjectID, got[1].ObjectID, got[2].ObjectID})
	})

	t.Run("delete session", func(t *testing.T) {
		n, err := repo.DeleteSession(ctx, session)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		got, err := repo.LoadSession(ctx, session)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = repo.LoadSession(ctx, other)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
