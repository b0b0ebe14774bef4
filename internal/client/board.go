package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/ordering"
)

// BoardSession is one open project board. Drops are applied locally first and
// then persisted; a failed write is replaced by the server's state.
type BoardSession struct {
	client *Client

	mu    sync.Mutex
	board *ordering.Board
}

// OpenBoard loads the project into a local board.
func (c *Client) OpenBoard(ctx context.Context, projectID string) (*BoardSession, error) {
	p, err := c.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &BoardSession{client: c, board: ordering.NewBoard(p)}, nil
}

// Sections returns a copy of the board as currently displayed.
func (s *BoardSession) Sections() []dom.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dom.Section, len(s.board.Sections))
	for i, sec := range s.board.Sections {
		sec.Tasks = append([]dom.Task(nil), sec.Tasks...)
		out[i] = sec
	}
	return out
}

// Drop moves activeID onto overID (a task or a section) and persists it with
// exactly one request. It returns the settled state of the operation. A drop
// that changes nothing returns ordering.ErrNoop and sends nothing.
func (s *BoardSession) Drop(ctx context.Context, activeID, overID string) (ordering.OpState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.siblingKeys(activeID)
	op, err := s.board.Begin(activeID, overID)
	if err != nil {
		return ordering.Pending, err
	}

	m := op.Mutation
	entry := s.client.logger.WithFields(log.Fields{
		"task_id":    m.TaskID,
		"section_id": m.SectionID,
		"mutation":   m.Kind.String(),
	})
	if m.Kind == ordering.SameParent {
		entry = entry.WithField("changed", len(ordering.Changed(before, m.Items)))
	}

	if werr := s.persist(ctx, m); werr != nil {
		fresh, ferr := s.client.Project(ctx, s.board.ProjectID)
		if ferr != nil {
			entry.WithError(werr).Error("board.refetch_failed")
			return op.State(), errors.Join(werr, fmt.Errorf("refetch project: %w", ferr))
		}
		if rerr := op.Revert(fresh); rerr != nil {
			return op.State(), rerr
		}
		entry.WithError(werr).Warn("board.drop_reverted")
		return op.State(), werr
	}

	if err := op.Confirm(); err != nil {
		return op.State(), err
	}
	entry.Debug("board.drop_confirmed")
	return op.State(), nil
}

// Refresh replaces the board with the server's current state.
func (s *BoardSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.client.Project(ctx, s.board.ProjectID)
	if err != nil {
		return err
	}
	s.board = ordering.NewBoard(p)
	return nil
}

func (s *BoardSession) persist(ctx context.Context, m ordering.Mutation) error {
	if m.Kind == ordering.CrossParent {
		return s.client.MoveTask(ctx, m.TaskID, m.SectionID)
	}
	return s.client.Reorder(ctx, ordering.Tasks, m.Items)
}

// siblingKeys snapshots the keys of the section holding taskID.
func (s *BoardSession) siblingKeys(taskID string) []ordering.Item {
	for _, sec := range s.board.Sections {
		for _, t := range sec.Tasks {
			if t.ID == taskID {
				return ordering.Items(sec.Tasks, func(t dom.Task) string { return t.ID })
			}
		}
	}
	return nil
}
