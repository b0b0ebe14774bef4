package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/dto"
	"github.com/josh-kartchner/traction/internal/ordering"
	"github.com/josh-kartchner/traction/internal/service"
)

// The handlers depend on these narrow views of the services.

type ProjectService interface {
	List(ctx context.Context) ([]dom.Project, error)
	Get(ctx context.Context, id string) (dom.Project, error)
	Create(ctx context.Context, in service.ProjectInput) (dom.Project, error)
	Update(ctx context.Context, id string, patch service.ProjectPatch) (dom.Project, error)
}

type SectionService interface {
	Create(ctx context.Context, projectID string, in service.SectionInput) (dom.Section, error)
	Update(ctx context.Context, id string, patch service.SectionPatch) (dom.Section, error)
	Delete(ctx context.Context, id, reassignTo string) error
}

type TaskService interface {
	Create(ctx context.Context, in service.TaskInput) (dom.Task, error)
	CreateInProject(ctx context.Context, projectID string, in service.TaskInput) (dom.Task, error)
	Get(ctx context.Context, id string) (dom.Task, error)
	Update(ctx context.Context, id string, patch service.TaskPatch) (dom.Task, error)
	Complete(ctx context.Context, id string) (dom.Task, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string) ([]dom.TaskView, error)
	AddComment(ctx context.Context, taskID, body string) (dom.Comment, error)
	AddAttachment(ctx context.Context, taskID string, in service.AttachmentInput) (dom.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}

type ReorderService interface {
	Apply(ctx context.Context, kind ordering.Kind, items []ordering.Item) error
}

type ViewService interface {
	MyTasks(ctx context.Context) (service.MyTasks, error)
	Report(ctx context.Context) (service.Report, error)
	Today(since string) service.TodayInfo
}

// writeError maps service errors to a status and body. Unexpected errors are
// attached to the context for the request logger and answered generically.
func writeError(c *gin.Context, err error) {
	var notEmpty *service.SectionNotEmptyError
	switch {
	case errors.As(err, &notEmpty):
		n := notEmpty.TaskCount
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: service.ErrSectionNotEmpty.Error(), TaskCount: &n})
	case errors.Is(err, ordering.ErrInvalidBatch),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrLastSection),
		errors.Is(err, service.ErrNoSections):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}

// bindJSON decodes the body and answers 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// parseID reads a path id and answers 400 when it is blank.
func parseID(c *gin.Context, name string) (string, bool) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return "", false
	}
	return id, true
}
