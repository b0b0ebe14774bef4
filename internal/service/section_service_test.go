package service

import (
	"context"
	"errors"
	"testing"
)

func newSectionService(m *memStore) *SectionService {
	return NewSectionService(fakeProjects{m}, fakeSections{m}, nil, nullLogger())
}

func TestSectionCreateAppends(t *testing.T) {
	m := newMemStore()
	p := m.addProject("Launch", 0, "To Do", "In Progress", "Done")
	svc := newSectionService(m)

	s, err := svc.Create(context.Background(), p.ID, SectionInput{Name: "Review"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.SortOrder != 3 {
		t.Fatalf("key = %d, want 3", s.SortOrder)
	}

	explicit := 10
	s, err = svc.Create(context.Background(), p.ID, SectionInput{Name: "Later", SortOrder: &explicit})
	if err != nil || s.SortOrder != 10 {
		t.Fatalf("explicit key: %+v, %v", s, err)
	}
}

func TestSectionCreateUnknownProject(t *testing.T) {
	svc := newSectionService(newMemStore())
	if _, err := svc.Create(context.Background(), "nope", SectionInput{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSectionDelete(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(m *memStore) (id, reassign string)
		wantErr    error
		wantTasks  int
		wantDelete bool
	}{
		{
			name: "last section is kept",
			setup: func(m *memStore) (string, string) {
				p := m.addProject("Solo", 0)
				return m.addSection(p.ID, "Only", 0).ID, ""
			},
			wantErr: ErrLastSection,
		},
		{
			name: "tasks without target",
			setup: func(m *memStore) (string, string) {
				p := m.addProject("Launch", 0)
				a := m.addSection(p.ID, "A", 0)
				m.addSection(p.ID, "B", 1)
				m.addTask(a.ID, "t1", 0)
				m.addTask(a.ID, "t2", 1)
				return a.ID, ""
			},
			wantErr: ErrSectionNotEmpty,
		},
		{
			name: "target in another project",
			setup: func(m *memStore) (string, string) {
				p := m.addProject("Launch", 0)
				a := m.addSection(p.ID, "A", 0)
				m.addSection(p.ID, "B", 1)
				other := m.addProject("Other", 1, "X")
				m.addTask(a.ID, "t1", 0)
				return a.ID, m.sectionsOf(other.ID)[0].ID
			},
			wantErr: ErrValidation,
		},
		{
			name: "reassign moves tasks",
			setup: func(m *memStore) (string, string) {
				p := m.addProject("Launch", 0)
				a := m.addSection(p.ID, "A", 0)
				b := m.addSection(p.ID, "B", 1)
				m.addTask(a.ID, "t1", 0)
				m.addTask(b.ID, "t2", 0)
				return a.ID, b.ID
			},
			wantTasks:  2,
			wantDelete: true,
		},
		{
			name: "empty section ignores target",
			setup: func(m *memStore) (string, string) {
				p := m.addProject("Launch", 0)
				a := m.addSection(p.ID, "A", 0)
				m.addSection(p.ID, "B", 1)
				return a.ID, "anything"
			},
			wantDelete: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemStore()
			id, reassign := tt.setup(m)
			err := newSectionService(m).Delete(context.Background(), id, reassign)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if m.calls["DeleteReassigning"] != 0 {
					t.Fatal("nothing should be deleted on a rejected request")
				}
				return
			}
			if err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, ok := m.sections[id]; ok == tt.wantDelete {
				t.Fatalf("section present = %v", ok)
			}
			if len(m.tasks) != tt.wantTasks {
				t.Fatalf("tasks = %d, want %d", len(m.tasks), tt.wantTasks)
			}
		})
	}
}

func TestSectionNotEmptyCarriesCount(t *testing.T) {
	m := newMemStore()
	p := m.addProject("Launch", 0)
	a := m.addSection(p.ID, "A", 0)
	m.addSection(p.ID, "B", 1)
	m.addTask(a.ID, "t1", 0)
	m.addTask(a.ID, "t2", 1)
	m.addTask(a.ID, "t3", 2)

	err := newSectionService(m).Delete(context.Background(), a.ID, "")
	var notEmpty *SectionNotEmptyError
	if !errors.As(err, &notEmpty) || notEmpty.TaskCount != 3 {
		t.Fatalf("err = %#v", err)
	}
}

func TestSectionUpdate(t *testing.T) {
	m := newMemStore()
	p := m.addProject("Launch", 0)
	s := m.addSection(p.ID, "A", 0)
	svc := newSectionService(m)

	name := " Backlog "
	out, err := svc.Update(context.Background(), s.ID, SectionPatch{Name: &name})
	if err != nil || out.Name != "Backlog" {
		t.Fatalf("update: %+v, %v", out, err)
	}
	neg := -1
	if _, err := svc.Update(context.Background(), s.ID, SectionPatch{SortOrder: &neg}); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative key err = %v", err)
	}
}
