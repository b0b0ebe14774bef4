package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/josh-kartchner/traction/internal/cache"
	"github.com/josh-kartchner/traction/internal/ordering"
	"github.com/josh-kartchner/traction/internal/repo"
)

const (
	tracerName      = "github.com/josh-kartchner/traction/internal/service"
	reorderSpanName = "reorder.apply"
)

// ReorderService persists batch sort-key updates sent after a drag.
type ReorderService struct {
	repo   repo.ReorderRepo
	views  views
	logger *log.Logger
}

// NewReorderService creates a ReorderService. If c is nil, caching is disabled.
func NewReorderService(r repo.ReorderRepo, c *cache.ViewCache, logger *log.Logger) *ReorderService {
	return &ReorderService{repo: r, views: views{cache: c, logger: logger}, logger: logger}
}

// Apply validates the batch and writes every pair or none. Invalid batches
// never reach the database; an unknown id rolls the whole batch back.
func (s *ReorderService) Apply(ctx context.Context, kind ordering.Kind, items []ordering.Item) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, reorderSpanName)
	span.SetAttributes(
		attribute.String("traction.reorder.type", string(kind)),
		attribute.Int("traction.reorder.items", len(items)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	if err := ordering.ValidateBatch(kind, items); err != nil {
		return err
	}
	if err := s.repo.Reorder(ctx, kind, items); err != nil {
		fields := log.Fields{"type": kind, "items": len(items)}
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.WithFields(fields).WithError(err).Warn("reorder.rejected")
			return ErrNotFound
		}
		s.logger.WithFields(fields).WithError(err).Error("reorder.failed")
		return err
	}
	s.views.invalidate(ctx)
	return nil
}
