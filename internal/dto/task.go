package dto

import (
	"time"

	"github.com/josh-kartchner/traction/internal/duedate"
)

type CreateTaskRequest struct {
	// SectionID is required on POST /tasks and optional under a project.
	SectionID   string       `json:"sectionId"`
	Title       string       `json:"title" binding:"required,max=500"`
	Description *string      `json:"description" binding:"omitempty,max=10000"`
	Status      string       `json:"status" binding:"omitempty,oneof=not_started in_progress on_hold completed"`
	DueDate     OptionalDate `json:"dueDate" swaggertype:"string" example:"2026-03-14"`
	SortOrder   *int         `json:"sortOrder" binding:"omitempty,min=0"`
}

// UpdateTaskRequest is a partial update. dueDate: absent = keep, null = clear.
type UpdateTaskRequest struct {
	Title       *string      `json:"title" binding:"omitempty,min=1,max=500"`
	Description *string      `json:"description" binding:"omitempty,max=10000"`
	Status      *string      `json:"status" binding:"omitempty,oneof=not_started in_progress on_hold completed"`
	DueDate     OptionalDate `json:"dueDate" swaggertype:"string" example:"2026-03-14"`
	SectionID   *string      `json:"sectionId" binding:"omitempty,min=1"`
	SortOrder   *int         `json:"sortOrder" binding:"omitempty,min=0"`
	CompletedAt *time.Time   `json:"completedAt"`
}

type TaskResponse struct {
	ID          string        `json:"id"`
	SectionID   string        `json:"sectionId"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      string        `json:"status"`
	DueDate     *duedate.Date `json:"dueDate" swaggertype:"string" example:"2026-03-14"`
	SortOrder   int           `json:"sortOrder"`
	CompletedAt *time.Time    `json:"completedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Comments    []CommentResponse    `json:"comments,omitempty"`
	Attachments []AttachmentResponse `json:"attachments,omitempty"`
}

// TaskViewResponse is a task with the project and section it lives in.
type TaskViewResponse struct {
	TaskResponse
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	SectionName string `json:"sectionName"`
	// Label is the relative due label ("Today", "Fri", "Mar 21"), my-tasks only.
	Label string `json:"label,omitempty"`
}

type ListTasksResponse struct {
	Items []TaskViewResponse `json:"items"`
}

type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,max=10000"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateAttachmentRequest struct {
	FileName string `json:"fileName" binding:"required,max=500"`
	FileURL  string `json:"fileUrl" binding:"required,max=2000"`
	FileSize int64  `json:"fileSize" binding:"required,gt=0"`
	MimeType string `json:"mimeType" binding:"required,max=200"`
}

type AttachmentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	FileName  string    `json:"fileName"`
	FileURL   string    `json:"fileUrl"`
	FileSize  int64     `json:"fileSize"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
}
