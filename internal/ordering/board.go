package ordering

import (
	"errors"
	"fmt"

	"github.com/josh-kartchner/traction/internal/domain"
)

var (
	ErrNoop          = errors.New("drop does not change order")
	ErrUnknownTask   = errors.New("dragged task is not on the board")
	ErrUnknownTarget = errors.New("drop target is not on the board")
	ErrOpSettled     = errors.New("operation already settled")
)

// MutationKind tells the caller which single write persists a drop.
type MutationKind int

const (
	// SameParent is persisted as one batch of every sibling's key.
	SameParent MutationKind = iota
	// CrossParent is persisted as one update of the task's section.
	CrossParent
)

func (k MutationKind) String() string {
	if k == CrossParent {
		return "cross_parent"
	}
	return "same_parent"
}

// Mutation is the authoritative write for one drop.
type Mutation struct {
	Kind      MutationKind
	TaskID    string
	SectionID string
	Items     []Item
}

// Board is a client-side snapshot of one project's sections and tasks.
type Board struct {
	ProjectID string
	Sections  []domain.Section
}

// NewBoard copies p into a board with sections and tasks in key order.
func NewBoard(p domain.Project) *Board {
	b := &Board{ProjectID: p.ID}
	b.load(p)
	return b
}

func (b *Board) load(p domain.Project) {
	sections := make([]domain.Section, len(p.Sections))
	for i, s := range p.Sections {
		s.Tasks = append([]domain.Task(nil), s.Tasks...)
		SortSiblings(s.Tasks)
		sections[i] = s
	}
	SortSiblings(sections)
	b.ProjectID = p.ID
	b.Sections = sections
}

// Section returns the section with the given id.
func (b *Board) Section(id string) (domain.Section, bool) {
	if i := b.sectionIndex(id); i >= 0 {
		return b.Sections[i], true
	}
	return domain.Section{}, false
}

func (b *Board) sectionIndex(id string) int {
	for i, s := range b.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// locate returns the section and position of a task.
func (b *Board) locate(taskID string) (int, int) {
	for si, s := range b.Sections {
		for ti, t := range s.Tasks {
			if t.ID == taskID {
				return si, ti
			}
		}
	}
	return -1, -1
}

// Drop applies a drag of activeID onto overID to the board and returns the
// write that persists it. overID is either a section (drop on the container,
// append) or a task (take that task's position).
func (b *Board) Drop(activeID, overID string) (Mutation, error) {
	srcIdx, from := b.locate(activeID)
	if srcIdx < 0 {
		return Mutation{}, fmt.Errorf("%w: %s", ErrUnknownTask, activeID)
	}
	if activeID == overID {
		return Mutation{}, ErrNoop
	}

	dstIdx, at := b.sectionIndex(overID), -1
	if dstIdx < 0 {
		dstIdx, at = b.locate(overID)
		if dstIdx < 0 {
			return Mutation{}, fmt.Errorf("%w: %s", ErrUnknownTarget, overID)
		}
	}

	if srcIdx == dstIdx {
		tasks := b.Sections[srcIdx].Tasks
		to := at
		if to < 0 {
			to = len(tasks) - 1
		}
		if to == from {
			return Mutation{}, ErrNoop
		}
		reordered := Reorder(tasks, from, to)
		b.Sections[srcIdx].Tasks = reordered
		return Mutation{
			Kind:      SameParent,
			TaskID:    activeID,
			SectionID: b.Sections[srcIdx].ID,
			Items:     Items(reordered, taskID),
		}, nil
	}

	src, dst, err := Move(b.Sections[srcIdx].Tasks, b.Sections[dstIdx].Tasks, from, at)
	if err != nil {
		return Mutation{}, err
	}
	for i := range dst {
		if dst[i].ID == activeID {
			dst[i].SectionID = b.Sections[dstIdx].ID
		}
	}
	b.Sections[srcIdx].Tasks = src
	b.Sections[dstIdx].Tasks = dst
	return Mutation{
		Kind:      CrossParent,
		TaskID:    activeID,
		SectionID: b.Sections[dstIdx].ID,
	}, nil
}

func taskID(t domain.Task) string { return t.ID }

// OpState is the lifecycle of one optimistic drop.
type OpState int

const (
	Pending OpState = iota
	Confirmed
	Reverted
)

func (s OpState) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Reverted:
		return "reverted"
	}
	return "pending"
}

// Op tracks one optimistic drop from pending until the server settles it.
type Op struct {
	Mutation Mutation
	board    *Board
	state    OpState
}

// Begin applies a drop optimistically and returns it as a pending Op.
func (b *Board) Begin(activeID, overID string) (*Op, error) {
	m, err := b.Drop(activeID, overID)
	if err != nil {
		return nil, err
	}
	return &Op{Mutation: m, board: b, state: Pending}, nil
}

func (o *Op) State() OpState { return o.state }

// Confirm marks the write as persisted. The board already shows it.
func (o *Op) Confirm() error {
	if o.state != Pending {
		return fmt.Errorf("%w: %s", ErrOpSettled, o.state)
	}
	o.state = Confirmed
	return nil
}

// Revert discards the optimistic board state and replaces it with a freshly
// fetched snapshot. There is no local undo.
func (o *Op) Revert(fresh domain.Project) error {
	if o.state != Pending {
		return fmt.Errorf("%w: %s", ErrOpSettled, o.state)
	}
	o.board.load(fresh)
	o.state = Reverted
	return nil
}
