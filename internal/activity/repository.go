// AngelaMos | 2026
// repository.go

package activity

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/modep/console/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS activity (
	id         TEXT PRIMARY KEY,
	actor      TEXT NOT NULL,
	action     TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activity_created_at
	ON activity (created_at DESC);
`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate activity schema: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, entry *Entry) error {
	return insertEntry(ctx, r.db, entry)
}

// Append inserts one entry and prunes to the retain window in a
// single transaction, so a crash between the two never leaves the
// feed over its window.
func (r *Repository) Append(
	ctx context.Context,
	entry *Entry,
	retain int,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertEntry(ctx, tx, entry); err != nil {
			return err
		}
		return pruneEntries(ctx, tx, retain)
	})
}

func insertEntry(ctx context.Context, db core.DBTX, entry *Entry) error {
	const query = `
		INSERT INTO activity (id, actor, action, detail, created_at)
		VALUES (:id, :actor, :action, :detail, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, db, query, entry); err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

func (r *Repository) Recent(
	ctx context.Context,
	limit int,
) ([]Entry, error) {
	const query = `
		SELECT id, actor, action, detail, created_at
		FROM activity
		ORDER BY created_at DESC
		LIMIT ?`

	entries := []Entry{}
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("select recent activity: %w", err)
	}
	return entries, nil
}

// Prune drops everything older than the retain-newest window.
func (r *Repository) Prune(ctx context.Context, retain int) error {
	return pruneEntries(ctx, r.db, retain)
}

func pruneEntries(ctx context.Context, db core.DBTX, retain int) error {
	const query = `
		DELETE FROM activity
		WHERE id NOT IN (
			SELECT id FROM activity
			ORDER BY created_at DESC
			LIMIT ?
		)`

	if _, err := db.ExecContext(ctx, query, retain); err != nil {
		return fmt.Errorf("prune activity: %w", err)
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM activity`)
	if err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}
	return count, nil
}
