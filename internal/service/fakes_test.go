package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/ordering"
)

// memStore backs the fake repositories with maps.
type memStore struct {
	projects    map[string]dom.Project
	sections    map[string]dom.Section
	tasks       map[string]dom.Task
	comments    []dom.Comment
	attachments map[string]dom.Attachment
	seq         int
	calls       map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		projects:    map[string]dom.Project{},
		sections:    map[string]dom.Section{},
		tasks:       map[string]dom.Task{},
		attachments: map[string]dom.Attachment{},
		calls:       map[string]int{},
	}
}

func (m *memStore) id(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

func (m *memStore) addProject(name string, key int, sections ...string) dom.Project {
	p := dom.Project{ID: m.id("p"), Name: name, SortOrder: key}
	m.projects[p.ID] = p
	for i, s := range sections {
		m.addSection(p.ID, s, i)
	}
	return p
}

func (m *memStore) addSection(projectID, name string, key int) dom.Section {
	s := dom.Section{ID: m.id("s"), ProjectID: projectID, Name: name, SortOrder: key}
	m.sections[s.ID] = s
	return s
}

func (m *memStore) addTask(sectionID, title string, key int) dom.Task {
	t := dom.Task{ID: m.id("t"), SectionID: sectionID, Title: title, Status: dom.StatusNotStarted, SortOrder: key}
	m.tasks[t.ID] = t
	return t
}

func (m *memStore) sectionsOf(projectID string) []dom.Section {
	var out []dom.Section
	for _, s := range m.sections {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (m *memStore) view(t dom.Task) dom.TaskView {
	s := m.sections[t.SectionID]
	p := m.projects[s.ProjectID]
	return dom.TaskView{Task: t, ProjectID: p.ID, ProjectName: p.Name, SectionName: s.Name}
}

type fakeProjects struct{ *memStore }

func (f fakeProjects) ListActive(ctx context.Context) ([]dom.Project, error) {
	var out []dom.Project
	for _, p := range f.projects {
		if !p.IsArchived {
			out = append(out, p)
		}
	}
	ordering.SortSiblings(out)
	return out, nil
}

func (f fakeProjects) Get(ctx context.Context, id string) (dom.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return dom.Project{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f fakeProjects) GetTree(ctx context.Context, id string) (dom.Project, error) {
	p, err := f.Get(ctx, id)
	if err != nil {
		return p, err
	}
	for _, s := range f.sectionsOf(id) {
		for _, t := range f.tasks {
			if t.SectionID == s.ID {
				s.Tasks = append(s.Tasks, t)
			}
		}
		ordering.SortSiblings(s.Tasks)
		p.Sections = append(p.Sections, s)
	}
	return p, nil
}

func (f fakeProjects) SortKeys(ctx context.Context) ([]ordering.Item, error) {
	var out []ordering.Item
	for _, p := range f.projects {
		out = append(out, ordering.Item{ID: p.ID, SortOrder: p.SortOrder})
	}
	return out, nil
}

func (f fakeProjects) CreateWithSections(ctx context.Context, p dom.Project, sections []string) (dom.Project, error) {
	p.ID = f.id("p")
	f.projects[p.ID] = p
	for i, name := range sections {
		p.Sections = append(p.Sections, f.addSection(p.ID, name, i))
	}
	return p, nil
}

func (f fakeProjects) Update(ctx context.Context, p dom.Project) (dom.Project, error) {
	if _, ok := f.projects[p.ID]; !ok {
		return dom.Project{}, pgx.ErrNoRows
	}
	f.projects[p.ID] = p
	return p, nil
}

type fakeSections struct{ *memStore }

func (f fakeSections) Get(ctx context.Context, id string) (dom.Section, error) {
	s, ok := f.sections[id]
	if !ok {
		return dom.Section{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f fakeSections) ListByProject(ctx context.Context, projectID string) ([]dom.Section, error) {
	return f.sectionsOf(projectID), nil
}

func (f fakeSections) SortKeys(ctx context.Context, projectID string) ([]ordering.Item, error) {
	var out []ordering.Item
	for _, s := range f.sectionsOf(projectID) {
		out = append(out, ordering.Item{ID: s.ID, SortOrder: s.SortOrder})
	}
	return out, nil
}

func (f fakeSections) Create(ctx context.Context, s dom.Section) (dom.Section, error) {
	return f.addSection(s.ProjectID, s.Name, s.SortOrder), nil
}

func (f fakeSections) Update(ctx context.Context, s dom.Section) (dom.Section, error) {
	f.sections[s.ID] = s
	return s, nil
}

func (f fakeSections) CountTasks(ctx context.Context, id string) (int, error) {
	n := 0
	for _, t := range f.tasks {
		if t.SectionID == id {
			n++
		}
	}
	return n, nil
}

func (f fakeSections) DeleteReassigning(ctx context.Context, id, reassignTo string) error {
	f.calls["DeleteReassigning"]++
	if _, ok := f.sections[id]; !ok {
		return pgx.ErrNoRows
	}
	for tid, t := range f.tasks {
		if t.SectionID == id {
			if reassignTo == "" {
				delete(f.tasks, tid)
				continue
			}
			t.SectionID = reassignTo
			f.tasks[tid] = t
		}
	}
	delete(f.sections, id)
	return nil
}

type fakeTasks struct{ *memStore }

func (f fakeTasks) Get(ctx context.Context, id string) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f fakeTasks) GetDetail(ctx context.Context, id string) (dom.Task, error) {
	t, err := f.Get(ctx, id)
	if err != nil {
		return t, err
	}
	for i := len(f.comments) - 1; i >= 0; i-- {
		if f.comments[i].TaskID == id {
			t.Comments = append(t.Comments, f.comments[i])
		}
	}
	return t, nil
}

func (f fakeTasks) SortKeys(ctx context.Context, sectionID string) ([]ordering.Item, error) {
	var out []ordering.Item
	for _, t := range f.tasks {
		if t.SectionID == sectionID {
			out = append(out, ordering.Item{ID: t.ID, SortOrder: t.SortOrder})
		}
	}
	return out, nil
}

func (f fakeTasks) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	f.calls["CreateTask"]++
	t.ID = f.id("t")
	f.tasks[t.ID] = t
	return t, nil
}

func (f fakeTasks) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	if _, ok := f.tasks[t.ID]; !ok {
		return dom.Task{}, pgx.ErrNoRows
	}
	f.tasks[t.ID] = t
	return t, nil
}

func (f fakeTasks) Delete(ctx context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tasks, id)
	return nil
}

func (f fakeTasks) ListOpen(ctx context.Context) ([]dom.TaskView, error) {
	f.calls["ListOpen"]++
	var out []dom.TaskView
	for _, t := range f.tasks {
		if t.Status != dom.StatusCompleted {
			out = append(out, f.view(t))
		}
	}
	return out, nil
}

func (f fakeTasks) ListActive(ctx context.Context) ([]dom.TaskView, error) {
	f.calls["ListActive"]++
	var out []dom.TaskView
	for _, t := range f.tasks {
		v := f.view(t)
		if !f.projects[v.ProjectID].IsArchived {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProjectName != out[j].ProjectName {
			return out[i].ProjectName < out[j].ProjectName
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func (f fakeTasks) Search(ctx context.Context, q string) ([]dom.TaskView, error) {
	f.calls["Search"]++
	var out []dom.TaskView
	for _, t := range f.tasks {
		if strings.Contains(strings.ToLower(t.Title), strings.ToLower(q)) {
			out = append(out, f.view(t))
		}
	}
	return out, nil
}

func (f fakeTasks) CreateComment(ctx context.Context, c dom.Comment) (dom.Comment, error) {
	c.ID = f.id("c")
	c.CreatedAt = time.Now()
	f.comments = append(f.comments, c)
	return c, nil
}

func (f fakeTasks) CreateAttachment(ctx context.Context, a dom.Attachment) (dom.Attachment, error) {
	a.ID = f.id("a")
	f.attachments[a.ID] = a
	return a, nil
}

func (f fakeTasks) GetAttachment(ctx context.Context, id string) (dom.Attachment, error) {
	a, ok := f.attachments[id]
	if !ok {
		return dom.Attachment{}, pgx.ErrNoRows
	}
	return a, nil
}

func (f fakeTasks) DeleteAttachment(ctx context.Context, id string) error {
	if _, ok := f.attachments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.attachments, id)
	return nil
}

type fakeReorder struct {
	calls int
	kind  ordering.Kind
	items []ordering.Item
	err   error
}

func (f *fakeReorder) Reorder(ctx context.Context, kind ordering.Kind, items []ordering.Item) error {
	f.calls++
	f.kind, f.items = kind, items
	return f.err
}

func nullLogger() *log.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}
