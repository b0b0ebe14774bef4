package domain

import (
	"time"

	"github.com/josh-kartchner/traction/internal/duedate"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusOnHold, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Task is owned by exactly one section at a time.
// DueDate is a calendar date; it is never shifted by a zone.
type Task struct {
	ID          string
	SectionID   string
	Title       string
	Description *string
	Status      Status
	DueDate     *duedate.Date
	SortOrder   int
	CompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Comments    []Comment
	Attachments []Attachment
}

func (t Task) GetSortOrder() int { return t.SortOrder }

func (t Task) WithSortOrder(n int) Task {
	t.SortOrder = n
	return t
}

// TaskView is a task seen from a cross-project view.
type TaskView struct {
	Task
	ProjectID   string
	ProjectName string
	SectionName string
}

func (v TaskView) Due() *duedate.Date { return v.DueDate }
func (v TaskView) Order() int { return v.SortOrder }
func (v TaskView) Project() string { return v.ProjectName }

// Comment bodies are immutable once written.
type Comment struct {
	ID        string
	TaskID    string
	Body      string
	CreatedAt time.Time
}

// Attachment holds metadata only; file bytes live in object storage.
type Attachment struct {
	ID        string
	TaskID    string
	FileName  string
	FileURL   string
	FileSize  int64
	MimeType  string
	CreatedAt time.Time
}
