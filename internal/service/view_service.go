package service

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/josh-kartchner/traction/internal/cache"
	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/duedate"
	"github.com/josh-kartchner/traction/internal/repo"
)

// MyTasks is every open task split by due date relative to Today.
type MyTasks struct {
	Today   duedate.Date
	Buckets duedate.Buckets[dom.TaskView]
}

// Report groups tasks of active projects by status. Every status is present.
type Report map[dom.Status][]dom.TaskView

// TodayInfo lets a long-lived client notice that the calendar day rolled over.
type TodayInfo struct {
	Today   duedate.Date
	Changed bool
}

// ViewService builds the cross-project read views.
type ViewService struct {
	tasks  repo.TaskRepo
	cache  *cache.ViewCache
	clock  duedate.Clock
	logger *log.Logger
	sf     singleflight.Group
}

// NewViewService creates a ViewService. If c is nil, caching is disabled.
func NewViewService(t repo.TaskRepo, c *cache.ViewCache, clock duedate.Clock, logger *log.Logger) *ViewService {
	return &ViewService{tasks: t, cache: c, clock: clock, logger: logger}
}

// MyTasks reads today once and classifies every open task against it.
func (s *ViewService) MyTasks(ctx context.Context) (MyTasks, error) {
	list, err := s.cached(ctx, "open", s.cache.GetOpen, s.cache.SetOpen, s.tasks.ListOpen)
	if err != nil {
		return MyTasks{}, err
	}
	today := s.clock.Today()
	return MyTasks{Today: today, Buckets: duedate.Partition(list, today)}, nil
}

// Report keeps the repository order (project name, then key) inside each group.
func (s *ViewService) Report(ctx context.Context) (Report, error) {
	list, err := s.cached(ctx, "active", s.cache.GetActive, s.cache.SetActive, s.tasks.ListActive)
	if err != nil {
		return nil, err
	}
	out := make(Report, len(dom.Statuses))
	for _, st := range dom.Statuses {
		out[st] = []dom.TaskView{}
	}
	for _, t := range list {
		if _, ok := out[t.Status]; ok {
			out[t.Status] = append(out[t.Status], t)
		}
	}
	return out, nil
}

// Today reports the current date in the configured zone and whether it
// differs from since.
func (s *ViewService) Today(since string) TodayInfo {
	since = strings.TrimSpace(since)
	return TodayInfo{Today: s.clock.Today(), Changed: since != "" && s.clock.HasDateChanged(since)}
}

type (
	viewGetter func(context.Context) ([]dom.TaskView, error)
	viewSetter func(context.Context, []dom.TaskView) error
	viewLoader func(context.Context) ([]dom.TaskView, error)
)

func (s *ViewService) cached(ctx context.Context, key string, get viewGetter, set viewSetter, load viewLoader) ([]dom.TaskView, error) {
	if s.cache == nil {
		return load(ctx)
	}
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := get(ctx); err == nil && list != nil {
			return list, nil
		} else if err != nil {
			s.logger.WithError(err).WithField("view", key).Warn("cache.get")
		}
		list, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := set(ctx, list); err != nil {
			s.logger.WithError(err).WithField("view", key).Warn("cache.set")
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.TaskView), nil
}
