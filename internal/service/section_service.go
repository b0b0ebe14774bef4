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
)

type SectionInput struct {
	Name string
	// SortOrder overrides the appended key when set.
	SortOrder *int
}

type SectionPatch struct {
	Name      *string
	SortOrder *int
}

type SectionService struct {
	projects repo.ProjectRepo
	sections repo.SectionRepo
	views    views
	logger   *log.Logger
}

// NewSectionService creates a SectionService. If c is nil, caching is disabled.
func NewSectionService(p repo.ProjectRepo, r repo.SectionRepo, c *cache.ViewCache, logger *log.Logger) *SectionService {
	return &SectionService{projects: p, sections: r, views: views{cache: c, logger: logger}, logger: logger}
}

func (s *SectionService) Create(ctx context.Context, projectID string, in SectionInput) (dom.Section, error) {
	name, err := cleanName(in.Name)
	if err != nil {
		return dom.Section{}, err
	}
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return dom.Section{}, notFound(err)
	}

	key, err := s.nextKey(ctx, projectID, in.SortOrder)
	if err != nil {
		return dom.Section{}, err
	}
	return s.sections.Create(ctx, dom.Section{ProjectID: projectID, Name: name, SortOrder: key})
}

func (s *SectionService) nextKey(ctx context.Context, projectID string, explicit *int) (int, error) {
	if explicit != nil {
		if *explicit < 0 {
			return 0, invalid("sortOrder must not be negative")
		}
		return *explicit, nil
	}
	keys, err := s.sections.SortKeys(ctx, projectID)
	if err != nil {
		return 0, fmt.Errorf("load section keys: %w", err)
	}
	return ordering.NextSortOrder(keys), nil
}

func (s *SectionService) Update(ctx context.Context, id string, patch SectionPatch) (dom.Section, error) {
	sec, err := s.sections.Get(ctx, id)
	if err != nil {
		return dom.Section{}, notFound(err)
	}
	if patch.Name != nil {
		if sec.Name, err = cleanName(*patch.Name); err != nil {
			return dom.Section{}, err
		}
	}
	if patch.SortOrder != nil {
		if *patch.SortOrder < 0 {
			return dom.Section{}, invalid("sortOrder must not be negative")
		}
		sec.SortOrder = *patch.SortOrder
	}
	out, err := s.sections.Update(ctx, sec)
	if err != nil {
		return dom.Section{}, notFound(err)
	}
	s.views.invalidate(ctx)
	return out, nil
}

// Delete removes a section. The last section of a project cannot be deleted,
// and a section holding tasks needs a target in the same project to move them to.
func (s *SectionService) Delete(ctx context.Context, id, reassignTo string) error {
	reassignTo = strings.TrimSpace(reassignTo)

	sec, err := s.sections.Get(ctx, id)
	if err != nil {
		return notFound(err)
	}
	siblings, err := s.sections.ListByProject(ctx, sec.ProjectID)
	if err != nil {
		return fmt.Errorf("list sections: %w", err)
	}
	if len(siblings) <= 1 {
		return ErrLastSection
	}

	count, err := s.sections.CountTasks(ctx, id)
	if err != nil {
		return fmt.Errorf("count tasks: %w", err)
	}
	if count > 0 {
		if reassignTo == "" {
			return &SectionNotEmptyError{TaskCount: count}
		}
		if reassignTo == id {
			return invalid("reassignTo must be a different section")
		}
		if !containsSection(siblings, reassignTo) {
			return invalid("reassignTo must be a section of the same project")
		}
	} else {
		reassignTo = ""
	}

	if err := s.sections.DeleteReassigning(ctx, id, reassignTo); err != nil {
		return notFound(err)
	}
	s.logger.WithFields(log.Fields{
		"section_id":  id,
		"reassign_to": reassignTo,
		"moved_tasks": count,
	}).Info("section.deleted")
	s.views.invalidate(ctx)
	return nil
}

func containsSection(list []dom.Section, id string) bool {
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}
