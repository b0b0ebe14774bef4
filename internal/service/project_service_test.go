package service

import (
	"context"
	"errors"
	"testing"
)

func TestProjectCreateAppendsAndSeedsSections(t *testing.T) {
	m := newMemStore()
	m.addProject("Home", 0)
	m.addProject("Work", 4)
	svc := NewProjectService(fakeProjects{m}, nil, nullLogger())

	desc := "  quarterly  "
	p, err := svc.Create(context.Background(), ProjectInput{Name: "  Launch ", Description: &desc})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Launch" || p.SortOrder != 5 {
		t.Fatalf("got name %q key %d", p.Name, p.SortOrder)
	}
	if p.Description == nil || *p.Description != "quarterly" {
		t.Fatalf("description = %v", p.Description)
	}

	want := []string{"To Do", "In Progress", "Done"}
	if len(p.Sections) != len(want) {
		t.Fatalf("sections = %d", len(p.Sections))
	}
	for i, s := range p.Sections {
		if s.Name != want[i] || s.SortOrder != i {
			t.Fatalf("section %d = %q/%d", i, s.Name, s.SortOrder)
		}
	}
}

func TestProjectCreateFirstGetsZero(t *testing.T) {
	svc := NewProjectService(fakeProjects{newMemStore()}, nil, nullLogger())
	p, err := svc.Create(context.Background(), ProjectInput{Name: "Only"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.SortOrder != 0 {
		t.Fatalf("first project key = %d", p.SortOrder)
	}
}

func TestProjectCreateRequiresName(t *testing.T) {
	svc := NewProjectService(fakeProjects{newMemStore()}, nil, nullLogger())
	if _, err := svc.Create(context.Background(), ProjectInput{Name: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestProjectUpdatePartial(t *testing.T) {
	m := newMemStore()
	p := m.addProject("Launch", 2)
	desc := "old"
	p.Description = &desc
	m.projects[p.ID] = p
	svc := NewProjectService(fakeProjects{m}, nil, nullLogger())

	blank, archived := "  ", true
	out, err := svc.Update(context.Background(), p.ID, ProjectPatch{Description: &blank, IsArchived: &archived})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Name != "Launch" || out.SortOrder != 2 {
		t.Fatalf("untouched fields changed: %+v", out)
	}
	if out.Description != nil || !out.IsArchived {
		t.Fatalf("patch not applied: %+v", out)
	}

	list, _ := svc.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("archived project still listed")
	}
}

func TestProjectNotFound(t *testing.T) {
	svc := NewProjectService(fakeProjects{newMemStore()}, nil, nullLogger())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get err = %v", err)
	}
	name := "x"
	if _, err := svc.Update(context.Background(), "missing", ProjectPatch{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update err = %v", err)
	}
}

func TestProjectGetReturnsOrderedTree(t *testing.T) {
	m := newMemStore()
	p := m.addProject("Launch", 0)
	done := m.addSection(p.ID, "Done", 2)
	todo := m.addSection(p.ID, "To Do", 0)
	m.addTask(todo.ID, "b", 5)
	m.addTask(todo.ID, "a", 1)
	m.addTask(done.ID, "c", 0)
	svc := NewProjectService(fakeProjects{m}, nil, nullLogger())

	got, err := svc.Get(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Sections[0].Name != "To Do" || got.Sections[1].Name != "Done" {
		t.Fatalf("section order wrong: %+v", got.Sections)
	}
	if got.Sections[0].Tasks[0].Title != "a" || got.Sections[0].Tasks[1].Title != "b" {
		t.Fatalf("task order wrong: %+v", got.Sections[0].Tasks)
	}
}
