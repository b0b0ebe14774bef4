package repo

import (
	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/duedate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const taskColumns = `t.id, t.section_id, t.title, t.description, t.status, t.due_date,
	t.sort_order, t.completed_at, t.created_at, t.updated_at`

func newID() string { return uuid.NewString() }

func scanTask(row pgx.Row, extra ...any) (dom.Task, error) {
	var (
		t      dom.Task
		status string
		due    pgtype.Date
	)
	dest := []any{&t.ID, &t.SectionID, &t.Title, &t.Description, &status, &due,
		&t.SortOrder, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return dom.Task{}, err
	}
	t.Status = dom.Status(status)
	t.DueDate = fromPGDate(due)
	return t, nil
}

func fromPGDate(d pgtype.Date) *duedate.Date {
	if !d.Valid {
		return nil
	}
	v := duedate.FromTime(d.Time)
	return &v
}

func toPGDate(d *duedate.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}
