package repo

import (
	"context"
	"fmt"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/ordering"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepo interface {
	ListActive(ctx context.Context) ([]dom.Project, error)
	Get(ctx context.Context, id string) (dom.Project, error)
	GetTree(ctx context.Context, id string) (dom.Project, error)
	SortKeys(ctx context.Context) ([]ordering.Item, error)
	CreateWithSections(ctx context.Context, p dom.Project, sections []string) (dom.Project, error)
	Update(ctx context.Context, p dom.Project) (dom.Project, error)
}

type PGProjectRepo struct {
	db *pgxpool.Pool
}

func NewPGProjectRepo(db *pgxpool.Pool) *PGProjectRepo {
	return &PGProjectRepo{db: db}
}

const projectColumns = `p.id, p.name, p.description, p.image_url, p.sort_order, p.is_archived, p.created_at, p.updated_at`

func scanProject(row pgx.Row, extra ...any) (dom.Project, error) {
	var p dom.Project
	dest := []any{&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.SortOrder, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt}
	err := row.Scan(append(dest, extra...)...)
	return p, err
}

// ListActive returns non-archived projects in key order with their open task count.
func (r *PGProjectRepo) ListActive(ctx context.Context) ([]dom.Project, error) {
	query := `
		SELECT ` + projectColumns + `,
			(SELECT COUNT(*) FROM tasks t JOIN sections s ON s.id = t.section_id
			 WHERE s.project_id = p.id AND t.status <> 'completed')
		FROM projects p
		WHERE p.is_archived = FALSE
		ORDER BY p.sort_order ASC, p.created_at ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Project
	for rows.Next() {
		var open int
		p, err := scanProject(rows, &open)
		if err != nil {
			return nil, err
		}
		p.OpenTaskCount = open
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PGProjectRepo) Get(ctx context.Context, id string) (dom.Project, error) {
	return scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
}

// GetTree loads a project with its sections and their tasks, each in key order.
func (r *PGProjectRepo) GetTree(ctx context.Context, id string) (dom.Project, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return dom.Project{}, err
	}

	sections, err := listSections(ctx, r.db, id)
	if err != nil {
		return dom.Project{}, err
	}
	index := make(map[string]int, len(sections))
	for i, s := range sections {
		index[s.ID] = i
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t JOIN sections s ON s.id = t.section_id
		WHERE s.project_id = $1
		ORDER BY t.sort_order ASC, t.created_at ASC`, id)
	if err != nil {
		return dom.Project{}, err
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return dom.Project{}, err
		}
		if i, ok := index[t.SectionID]; ok {
			sections[i].Tasks = append(sections[i].Tasks, t)
		}
	}
	if err := rows.Err(); err != nil {
		return dom.Project{}, err
	}
	p.Sections = sections
	return p, nil
}

func (r *PGProjectRepo) SortKeys(ctx context.Context) ([]ordering.Item, error) {
	return sortKeys(ctx, r.db, `SELECT id, sort_order FROM projects`)
}

// CreateWithSections inserts the project and its initial sections in one transaction.
func (r *PGProjectRepo) CreateWithSections(ctx context.Context, p dom.Project, sections []string) (dom.Project, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Project{}, err
	}
	defer tx.Rollback(ctx)

	p.ID = newID()
	out, err := scanProject(tx.QueryRow(ctx, `
		INSERT INTO projects AS p (id, name, description, image_url, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+projectColumns,
		p.ID, p.Name, p.Description, p.ImageURL, p.SortOrder))
	if err != nil {
		return dom.Project{}, fmt.Errorf("insert project: %w", err)
	}
	for i, name := range sections {
		s, err := insertSection(ctx, tx, dom.Section{ProjectID: out.ID, Name: name, SortOrder: i})
		if err != nil {
			return dom.Project{}, fmt.Errorf("insert section %q: %w", name, err)
		}
		out.Sections = append(out.Sections, s)
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Project{}, err
	}
	return out, nil
}

func (r *PGProjectRepo) Update(ctx context.Context, p dom.Project) (dom.Project, error) {
	return scanProject(r.db.QueryRow(ctx, `
		UPDATE projects AS p
		SET name = $2, description = $3, image_url = $4, sort_order = $5, is_archived = $6, updated_at = NOW()
		WHERE p.id = $1
		RETURNING `+projectColumns,
		p.ID, p.Name, p.Description, p.ImageURL, p.SortOrder, p.IsArchived))
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func sortKeys(ctx context.Context, q querier, query string, args ...any) ([]ordering.Item, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ordering.Item
	for rows.Next() {
		var it ordering.Item
		if err := rows.Scan(&it.ID, &it.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
