package repo

import (
	"context"
	"fmt"

	"github.com/josh-kartchner/traction/internal/ordering"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReorderRepo persists batches of sort keys.
type ReorderRepo interface {
	// Reorder writes every pair or none of them.
	Reorder(ctx context.Context, kind ordering.Kind, items []ordering.Item) error
}

var reorderStatements = map[ordering.Kind]string{
	ordering.Projects: `UPDATE projects SET sort_order = $2, updated_at = NOW() WHERE id = $1`,
	ordering.Sections: `UPDATE sections SET sort_order = $2 WHERE id = $1`,
	ordering.Tasks:    `UPDATE tasks SET sort_order = $2, updated_at = NOW() WHERE id = $1`,
}

type PGReorderRepo struct {
	db *pgxpool.Pool
}

func NewPGReorderRepo(db *pgxpool.Pool) *PGReorderRepo {
	return &PGReorderRepo{db: db}
}

// Reorder sends all updates as one batch inside a transaction. A pair that
// matches no row aborts the whole batch with pgx.ErrNoRows.
func (r *PGReorderRepo) Reorder(ctx context.Context, kind ordering.Kind, items []ordering.Item) error {
	stmt, ok := reorderStatements[kind]
	if !ok {
		return fmt.Errorf("reorder: unknown type %q", kind)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reorder begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(stmt, it.ID, it.SortOrder)
	}
	br := tx.SendBatch(ctx, batch)
	for _, it := range items {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return fmt.Errorf("reorder %s %q: %w", kind, it.ID, err)
		}
		if tag.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("reorder %s %q: %w", kind, it.ID, pgx.ErrNoRows)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("reorder batch: %w", err)
	}
	return tx.Commit(ctx)
}
