// AngelaMos | 2026
// repository_test.go

package activity

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	ctx := context.Background()

	db, err := core.NewDatabase(ctx, config.ActivityConfig{
		Path: filepath.Join(t.TempDir(), "activity.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepository(db.DB)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func entryAt(offset time.Duration) *Entry {
	return &Entry{
		ID:        uuid.New().String(),
		Actor:     "agent",
		Action:    "member.created",
		Detail:    "Bennis Sara (NAX 111111)",
		CreatedAt: time.Now().UTC().Add(offset),
	}
}

func TestRepositoryInsertAndRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	oldest := entryAt(-2 * time.Hour)
	middle := entryAt(-1 * time.Hour)
	newest := entryAt(0)

	for _, e := range []*Entry{oldest, middle, newest} {
		require.NoError(t, repo.Insert(ctx, e))
	}

	entries, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, newest.ID, entries[0].ID)
	require.Equal(t, middle.ID, entries[1].ID)
}

func TestRepositoryPruneKeepsNewest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := range 5 {
		e := entryAt(-time.Duration(i) * time.Minute)
		require.NoError(t, repo.Insert(ctx, e))
	}

	require.NoError(t, repo.Prune(ctx, 3))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	entries, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestRepositoryAppendInsertsAndPrunes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := range 3 {
		e := entryAt(-time.Duration(i+1) * time.Minute)
		require.NoError(t, repo.Insert(ctx, e))
	}

	newest := entryAt(0)
	require.NoError(t, repo.Append(ctx, newest, 3))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	entries, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, newest.ID, entries[0].ID)
}

func TestServiceRecordIsBestEffort(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	svc := NewService(repo, 10, true)
	svc.Record(ctx, "agent", "claim.created", "reçu R-1 (NAX 111111)")

	entries, err := svc.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "claim.created", entries[0].Action)
}

func TestServiceDisabledIsSilent(t *testing.T) {
	svc := NewService(nil, 10, false)

	// Must not touch the nil repository.
	svc.Record(context.Background(), "agent", "noop", "")

	entries, err := svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, entries)
}
