package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/josh-kartchner/traction/internal/cache"
	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/ordering"
	"github.com/josh-kartchner/traction/internal/repo"
	"github.com/josh-kartchner/traction/internal/utils"
)

const maxNameLen = 200

type ProjectInput struct {
	Name        string
	Description *string
	ImageURL    *string
}

// ProjectPatch is a partial update. Nil fields are left alone; a blank
// description or image URL clears it.
type ProjectPatch struct {
	Name        *string
	Description *string
	ImageURL    *string
	SortOrder   *int
	IsArchived  *bool
}

type ProjectService struct {
	repo   repo.ProjectRepo
	views  views
	logger *log.Logger
}

// NewProjectService creates a ProjectService. If c is nil, caching is disabled.
func NewProjectService(r repo.ProjectRepo, c *cache.ViewCache, logger *log.Logger) *ProjectService {
	return &ProjectService{repo: r, views: views{cache: c, logger: logger}, logger: logger}
}

func (s *ProjectService) List(ctx context.Context) ([]dom.Project, error) {
	return s.repo.ListActive(ctx)
}

// Get returns the project with its sections and tasks in key order.
func (s *ProjectService) Get(ctx context.Context, id string) (dom.Project, error) {
	p, err := s.repo.GetTree(ctx, id)
	if err != nil {
		return dom.Project{}, notFound(err)
	}
	return p, nil
}

// Create appends the project after every existing one and seeds the default sections.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (dom.Project, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return dom.Project{}, err
	}
	keys, err := s.repo.SortKeys(ctx)
	if err != nil {
		return dom.Project{}, fmt.Errorf("load project keys: %w", err)
	}

	p, err := s.repo.CreateWithSections(ctx, dom.Project{
		Name:        name,
		Description: utils.TrimOptional(in.Description),
		ImageURL:    utils.TrimOptional(in.ImageURL),
		SortOrder:   ordering.NextSortOrder(keys),
	}, dom.DefaultSections)
	if err != nil {
		return dom.Project{}, err
	}
	s.logger.WithFields(log.Fields{"project_id": p.ID, "sort_order": p.SortOrder}).Info("project.created")
	s.views.invalidate(ctx)
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, patch ProjectPatch) (dom.Project, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return dom.Project{}, notFound(err)
	}
	if patch.Name != nil {
		if p.Name, err = cleanName(*patch.Name); err != nil {
			return dom.Project{}, err
		}
	}
	if patch.Description != nil {
		p.Description = utils.TrimOptional(patch.Description)
	}
	if patch.ImageURL != nil {
		p.ImageURL = utils.TrimOptional(patch.ImageURL)
	}
	if patch.SortOrder != nil {
		if *patch.SortOrder < 0 {
			return dom.Project{}, invalid("sortOrder must not be negative")
		}
		p.SortOrder = *patch.SortOrder
	}
	if patch.IsArchived != nil {
		p.IsArchived = *patch.IsArchived
	}

	out, err := s.repo.Update(ctx, p)
	if err != nil {
		return dom.Project{}, notFound(err)
	}
	s.views.invalidate(ctx)
	return out, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name is required")
	}
	if len([]rune(name)) > maxNameLen {
		return "", invalid(fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}
	return name, nil
}
