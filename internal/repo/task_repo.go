package repo

import (
	"context"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/ordering"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepo interface {
	Get(ctx context.Context, id string) (dom.Task, error)
	GetDetail(ctx context.Context, id string) (dom.Task, error)
	SortKeys(ctx context.Context, sectionID string) ([]ordering.Item, error)
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	Update(ctx context.Context, t dom.Task) (dom.Task, error)
	Delete(ctx context.Context, id string) error
	ListOpen(ctx context.Context) ([]dom.TaskView, error)
	ListActive(ctx context.Context) ([]dom.TaskView, error)
	Search(ctx context.Context, q string) ([]dom.TaskView, error)

	CreateComment(ctx context.Context, c dom.Comment) (dom.Comment, error)
	CreateAttachment(ctx context.Context, a dom.Attachment) (dom.Attachment, error)
	GetAttachment(ctx context.Context, id string) (dom.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Get(ctx context.Context, id string) (dom.Task, error) {
	return scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id))
}

// GetDetail returns the task with comments and attachments, newest first.
func (r *PGTaskRepo) GetDetail(ctx context.Context, id string) (dom.Task, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return dom.Task{}, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, task_id, body, created_at FROM comments
		WHERE task_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return dom.Task{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var c dom.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Body, &c.CreatedAt); err != nil {
			return dom.Task{}, err
		}
		t.Comments = append(t.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return dom.Task{}, err
	}

	rows, err = r.db.Query(ctx, `
		SELECT `+attachmentColumns+` FROM attachments
		WHERE task_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return dom.Task{}, err
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return dom.Task{}, err
		}
		t.Attachments = append(t.Attachments, a)
	}
	return t, rows.Err()
}

func (r *PGTaskRepo) SortKeys(ctx context.Context, sectionID string) ([]ordering.Item, error) {
	return sortKeys(ctx, r.db, `SELECT id, sort_order FROM tasks WHERE section_id = $1`, sectionID)
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks AS t (id, section_id, title, description, status, due_date, sort_order, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		newID(), t.SectionID, t.Title, t.Description, string(t.Status), toPGDate(t.DueDate), t.SortOrder, t.CompletedAt))
}

func (r *PGTaskRepo) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks AS t
		SET section_id = $2, title = $3, description = $4, status = $5, due_date = $6,
			sort_order = $7, completed_at = $8, updated_at = NOW()
		WHERE t.id = $1
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		t.ID, t.SectionID, t.Title, t.Description, string(t.Status), toPGDate(t.DueDate), t.SortOrder, t.CompletedAt))
}

func (r *PGTaskRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const viewSelect = `
	SELECT ` + taskColumns + `, p.id, p.name, s.name
	FROM tasks t
	JOIN sections s ON s.id = t.section_id
	JOIN projects p ON p.id = s.project_id`

// ListOpen returns every incomplete task, due date ascending with undated last.
func (r *PGTaskRepo) ListOpen(ctx context.Context) ([]dom.TaskView, error) {
	return r.listViews(ctx, viewSelect+`
		WHERE t.status <> 'completed'
		ORDER BY t.due_date ASC NULLS LAST, t.sort_order ASC`)
}

// ListActive returns tasks of non-archived projects by project name then key.
func (r *PGTaskRepo) ListActive(ctx context.Context) ([]dom.TaskView, error) {
	return r.listViews(ctx, viewSelect+`
		WHERE p.is_archived = FALSE
		ORDER BY p.name ASC, t.sort_order ASC`)
}

func (r *PGTaskRepo) Search(ctx context.Context, q string) ([]dom.TaskView, error) {
	pattern := "%" + q + "%"
	return r.listViews(ctx, viewSelect+`
		WHERE p.is_archived = FALSE AND (t.title ILIKE $1 OR t.description ILIKE $1)
		ORDER BY t.updated_at DESC`, pattern)
}

func (r *PGTaskRepo) listViews(ctx context.Context, query string, args ...any) ([]dom.TaskView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.TaskView
	for rows.Next() {
		var v dom.TaskView
		t, err := scanTask(rows, &v.ProjectID, &v.ProjectName, &v.SectionName)
		if err != nil {
			return nil, err
		}
		v.Task = t
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) CreateComment(ctx context.Context, c dom.Comment) (dom.Comment, error) {
	var out dom.Comment
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (id, task_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, task_id, body, created_at`,
		newID(), c.TaskID, c.Body,
	).Scan(&out.ID, &out.TaskID, &out.Body, &out.CreatedAt)
	return out, err
}

const attachmentColumns = `id, task_id, file_name, file_url, file_size, mime_type, created_at`

func scanAttachment(row pgx.Row) (dom.Attachment, error) {
	var a dom.Attachment
	err := row.Scan(&a.ID, &a.TaskID, &a.FileName, &a.FileURL, &a.FileSize, &a.MimeType, &a.CreatedAt)
	return a, err
}

func (r *PGTaskRepo) CreateAttachment(ctx context.Context, a dom.Attachment) (dom.Attachment, error) {
	return scanAttachment(r.db.QueryRow(ctx, `
		INSERT INTO attachments (id, task_id, file_name, file_url, file_size, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+attachmentColumns,
		newID(), a.TaskID, a.FileName, a.FileURL, a.FileSize, a.MimeType))
}

func (r *PGTaskRepo) GetAttachment(ctx context.Context, id string) (dom.Attachment, error) {
	return scanAttachment(r.db.QueryRow(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = $1`, id))
}

func (r *PGTaskRepo) DeleteAttachment(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
