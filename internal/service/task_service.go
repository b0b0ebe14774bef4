package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/josh-kartchner/traction/internal/cache"
	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/duedate"
	"github.com/josh-kartchner/traction/internal/ordering"
	"github.com/josh-kartchner/traction/internal/repo"
	"github.com/josh-kartchner/traction/internal/utils"
)

const (
	// MaxAttachmentSize is the largest attachment accepted, in bytes.
	MaxAttachmentSize = 10 << 20

	maxTitleLen   = 500
	maxCommentLen = 10000
)

type TaskInput struct {
	SectionID   string
	Title       string
	Description *string
	Status      dom.Status
	DueDate     *duedate.Date
	SortOrder   *int
}

// DatePatch distinguishes "leave alone" (Set false) from "clear" (Set true,
// Value nil).
type DatePatch struct {
	Set   bool
	Value *duedate.Date
}

type TaskPatch struct {
	Title       *string
	Description *string
	Status      *dom.Status
	DueDate     DatePatch
	SectionID   *string
	SortOrder   *int
	CompletedAt *time.Time
}

type AttachmentInput struct {
	FileName string
	FileURL  string
	FileSize int64
	MimeType string
}

type TaskService struct {
	projects repo.ProjectRepo
	sections repo.SectionRepo
	tasks    repo.TaskRepo
	cache    *cache.ViewCache
	views    views
	logger   *log.Logger
	now      func() time.Time
	sf       singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(p repo.ProjectRepo, sec repo.SectionRepo, t repo.TaskRepo, c *cache.ViewCache, logger *log.Logger) *TaskService {
	return &TaskService{
		projects: p,
		sections: sec,
		tasks:    t,
		cache:    c,
		views:    views{cache: c, logger: logger},
		logger:   logger,
		now:      time.Now,
	}
}

// Create appends a task to an existing section.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (dom.Task, error) {
	if strings.TrimSpace(in.SectionID) == "" {
		return dom.Task{}, invalid("sectionId is required")
	}
	if _, err := s.sections.Get(ctx, in.SectionID); err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return dom.Task{}, invalid("section does not exist")
		}
		return dom.Task{}, err
	}
	return s.create(ctx, in)
}

// CreateInProject adds a task to a project. Without a section it lands in the
// first section by key.
func (s *TaskService) CreateInProject(ctx context.Context, projectID string, in TaskInput) (dom.Task, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return dom.Task{}, notFound(err)
	}
	sections, err := s.sections.ListByProject(ctx, projectID)
	if err != nil {
		return dom.Task{}, fmt.Errorf("list sections: %w", err)
	}
	if len(sections) == 0 {
		return dom.Task{}, ErrNoSections
	}
	if in.SectionID == "" {
		ordering.SortSiblings(sections)
		in.SectionID = sections[0].ID
	} else if !containsSection(sections, in.SectionID) {
		return dom.Task{}, invalid("section does not belong to the project")
	}
	return s.create(ctx, in)
}

func (s *TaskService) create(ctx context.Context, in TaskInput) (dom.Task, error) {
	title, err := cleanTitle(in.Title)
	if err != nil {
		return dom.Task{}, err
	}
	status := in.Status
	if status == "" {
		status = dom.StatusNotStarted
	}
	if !status.Valid() {
		return dom.Task{}, invalid(fmt.Sprintf("unknown status %q", status))
	}

	var key int
	if in.SortOrder != nil {
		if *in.SortOrder < 0 {
			return dom.Task{}, invalid("sortOrder must not be negative")
		}
		key = *in.SortOrder
	} else {
		keys, err := s.tasks.SortKeys(ctx, in.SectionID)
		if err != nil {
			return dom.Task{}, fmt.Errorf("load task keys: %w", err)
		}
		key = ordering.NextSortOrder(keys)
	}

	t := dom.Task{
		SectionID:   in.SectionID,
		Title:       title,
		Description: utils.TrimOptional(in.Description),
		Status:      status,
		DueDate:     in.DueDate,
		SortOrder:   key,
	}
	if status == dom.StatusCompleted {
		now := s.now().UTC()
		t.CompletedAt = &now
	}
	out, err := s.tasks.Create(ctx, t)
	if err != nil {
		if utils.IsPGForeignKeyViolation(err) {
			return dom.Task{}, invalid("section does not exist")
		}
		return dom.Task{}, err
	}
	s.views.invalidate(ctx)
	return out, nil
}

// Get returns the task with comments and attachments, newest first.
func (s *TaskService) Get(ctx context.Context, id string) (dom.Task, error) {
	t, err := s.tasks.GetDetail(ctx, id)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	return t, nil
}

// Update applies a partial update. Moving to another section keeps the
// task's key; the destination is renumbered only by a later reorder.
func (s *TaskService) Update(ctx context.Context, id string, patch TaskPatch) (dom.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return dom.Task{}, notFound(err)
	}
	if patch.Title != nil {
		if t.Title, err = cleanTitle(*patch.Title); err != nil {
			return dom.Task{}, err
		}
	}
	if patch.Description != nil {
		t.Description = utils.TrimOptional(patch.Description)
	}
	if patch.DueDate.Set {
		t.DueDate = patch.DueDate.Value
	}
	if patch.SortOrder != nil {
		if *patch.SortOrder < 0 {
			return dom.Task{}, invalid("sortOrder must not be negative")
		}
		t.SortOrder = *patch.SortOrder
	}
	if patch.SectionID != nil && *patch.SectionID != t.SectionID {
		if _, err := s.sections.Get(ctx, *patch.SectionID); err != nil {
			if errors.Is(notFound(err), ErrNotFound) {
				return dom.Task{}, invalid("section does not exist")
			}
			return dom.Task{}, err
		}
		t.SectionID = *patch.SectionID
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return dom.Task{}, invalid(fmt.Sprintf("unknown status %q", *patch.Status))
		}
		s.transition(&t, *patch.Status)
	}
	if patch.CompletedAt != nil {
		at := patch.CompletedAt.UTC()
		t.CompletedAt = &at
	}

	out, err := s.tasks.Update(ctx, t)
	if err != nil {
		if utils.IsPGForeignKeyViolation(err) {
			return dom.Task{}, invalid("section does not exist")
		}
		return dom.Task{}, notFound(err)
	}
	s.views.invalidate(ctx)
	return out, nil
}

// transition keeps completedAt in step with the status: stamped when a task
// becomes completed, cleared when it leaves that status.
func (s *TaskService) transition(t *dom.Task, to dom.Status) {
	switch {
	case to == dom.StatusCompleted && (t.Status != dom.StatusCompleted || t.CompletedAt == nil):
		now := s.now().UTC()
		t.CompletedAt = &now
	case to != dom.StatusCompleted:
		t.CompletedAt = nil
	}
	t.Status = to
}

func (s *TaskService) Complete(ctx context.Context, id string) (dom.Task, error) {
	status := dom.StatusCompleted
	return s.Update(ctx, id, TaskPatch{Status: &status})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	s.views.invalidate(ctx)
	return nil
}

// Search matches title or description of tasks in active projects.
func (s *TaskService) Search(ctx context.Context, q string) ([]dom.TaskView, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []dom.TaskView{}, nil
	}
	if s.cache == nil {
		return s.tasks.Search(ctx, q)
	}
	key := "search:" + cache.NormalizeQuery(q)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetSearch(ctx, q); err == nil && list != nil {
			return list, nil
		}
		list, err := s.tasks.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetSearch(ctx, q, list); err != nil {
			s.logger.WithError(err).WithField("query", utils.Truncate(q, 40)).Warn("cache.set")
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.TaskView), nil
}

func (s *TaskService) AddComment(ctx context.Context, taskID, body string) (dom.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return dom.Comment{}, invalid("body is required")
	}
	if len([]rune(body)) > maxCommentLen {
		return dom.Comment{}, invalid(fmt.Sprintf("body must be at most %d characters", maxCommentLen))
	}
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return dom.Comment{}, notFound(err)
	}
	return s.tasks.CreateComment(ctx, dom.Comment{TaskID: taskID, Body: body})
}

// AddAttachment records attachment metadata. The file itself is uploaded by
// the client to object storage beforehand.
func (s *TaskService) AddAttachment(ctx context.Context, taskID string, in AttachmentInput) (dom.Attachment, error) {
	in.FileName = strings.TrimSpace(in.FileName)
	in.FileURL = strings.TrimSpace(in.FileURL)
	in.MimeType = strings.TrimSpace(in.MimeType)
	switch {
	case in.FileName == "", in.FileURL == "", in.MimeType == "", in.FileSize <= 0:
		return dom.Attachment{}, invalid("fileName, fileUrl, fileSize and mimeType are required")
	case in.FileSize > MaxAttachmentSize:
		return dom.Attachment{}, invalid("file exceeds the 10MB limit")
	}
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		return dom.Attachment{}, notFound(err)
	}
	return s.tasks.CreateAttachment(ctx, dom.Attachment{
		TaskID:   taskID,
		FileName: in.FileName,
		FileURL:  in.FileURL,
		FileSize: in.FileSize,
		MimeType: in.MimeType,
	})
}

// DeleteAttachment removes the metadata row. The stored file is left for
// the storage lifecycle to collect.
func (s *TaskService) DeleteAttachment(ctx context.Context, id string) error {
	a, err := s.tasks.GetAttachment(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.tasks.DeleteAttachment(ctx, id); err != nil {
		return notFound(err)
	}
	s.logger.WithFields(log.Fields{"attachment_id": a.ID, "task_id": a.TaskID, "file_url": a.FileURL}).Info("attachment.deleted")
	return nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("title is required")
	}
	if len([]rune(title)) > maxTitleLen {
		return "", invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	return title, nil
}
