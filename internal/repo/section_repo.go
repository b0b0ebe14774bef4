package repo

import (
	"context"
	"fmt"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/ordering"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SectionRepo interface {
	Get(ctx context.Context, id string) (dom.Section, error)
	ListByProject(ctx context.Context, projectID string) ([]dom.Section, error)
	SortKeys(ctx context.Context, projectID string) ([]ordering.Item, error)
	Create(ctx context.Context, s dom.Section) (dom.Section, error)
	Update(ctx context.Context, s dom.Section) (dom.Section, error)
	CountTasks(ctx context.Context, id string) (int, error)
	// DeleteReassigning moves the section's tasks to reassignTo (when not
	// empty) and deletes the section, atomically.
	DeleteReassigning(ctx context.Context, id, reassignTo string) error
}

type PGSectionRepo struct {
	db *pgxpool.Pool
}

func NewPGSectionRepo(db *pgxpool.Pool) *PGSectionRepo {
	return &PGSectionRepo{db: db}
}

const sectionColumns = `id, project_id, name, sort_order, created_at`

func scanSection(row pgx.Row) (dom.Section, error) {
	var s dom.Section
	err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.SortOrder, &s.CreatedAt)
	return s, err
}

func (r *PGSectionRepo) Get(ctx context.Context, id string) (dom.Section, error) {
	return scanSection(r.db.QueryRow(ctx, `SELECT `+sectionColumns+` FROM sections WHERE id = $1`, id))
}

func (r *PGSectionRepo) ListByProject(ctx context.Context, projectID string) ([]dom.Section, error) {
	return listSections(ctx, r.db, projectID)
}

func listSections(ctx context.Context, q querier, projectID string) ([]dom.Section, error) {
	rows, err := q.Query(ctx, `
		SELECT `+sectionColumns+` FROM sections
		WHERE project_id = $1
		ORDER BY sort_order ASC, created_at ASC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PGSectionRepo) SortKeys(ctx context.Context, projectID string) ([]ordering.Item, error) {
	return sortKeys(ctx, r.db, `SELECT id, sort_order FROM sections WHERE project_id = $1`, projectID)
}

func (r *PGSectionRepo) Create(ctx context.Context, s dom.Section) (dom.Section, error) {
	return insertSection(ctx, r.db, s)
}

func insertSection(ctx context.Context, q querier, s dom.Section) (dom.Section, error) {
	return scanSection(q.QueryRow(ctx, `
		INSERT INTO sections (id, project_id, name, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING `+sectionColumns,
		newID(), s.ProjectID, s.Name, s.SortOrder))
}

func (r *PGSectionRepo) Update(ctx context.Context, s dom.Section) (dom.Section, error) {
	return scanSection(r.db.QueryRow(ctx, `
		UPDATE sections SET name = $2, sort_order = $3
		WHERE id = $1
		RETURNING `+sectionColumns,
		s.ID, s.Name, s.SortOrder))
}

func (r *PGSectionRepo) CountTasks(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE section_id = $1`, id).Scan(&n)
	return n, err
}

func (r *PGSectionRepo) DeleteReassigning(ctx context.Context, id, reassignTo string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if reassignTo != "" {
		if _, err := tx.Exec(ctx,
			`UPDATE tasks SET section_id = $2, updated_at = NOW() WHERE section_id = $1`,
			id, reassignTo); err != nil {
			return fmt.Errorf("reassign tasks: %w", err)
		}
	}
	tag, err := tx.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}
