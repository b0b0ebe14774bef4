package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"github.com/josh-kartchner/traction/internal/cache"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrLastSection = errors.New("cannot delete the last section of a project")
	ErrNoSections  = errors.New("project has no sections")

	ErrSectionNotEmpty = errors.New("section has tasks; reassignTo is required")
)

// SectionNotEmptyError is returned when a section with tasks is deleted
// without a reassignment target.
type SectionNotEmptyError struct {
	TaskCount int
}

func (e *SectionNotEmptyError) Error() string {
	return fmt.Sprintf("%s (%d tasks)", ErrSectionNotEmpty, e.TaskCount)
}

func (e *SectionNotEmptyError) Unwrap() error { return ErrSectionNotEmpty }

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// notFound maps a missing row to ErrNotFound and passes anything else through.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// views drops cached cross-project views after a write. A nil cache is a no-op.
type views struct {
	cache  *cache.ViewCache
	logger *log.Logger
}

func (v views) invalidate(ctx context.Context) {
	if v.cache == nil {
		return
	}
	if err := v.cache.InvalidateAll(ctx); err != nil {
		v.logger.WithError(err).Warn("cache.invalidate")
	}
}
