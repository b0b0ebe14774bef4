package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/josh-kartchner/traction/internal/cache"
	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/duedate"
)

func newTestViewCache(t *testing.T) *cache.ViewCache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewViewCache(client, time.Minute)
}

func dueTask(m *memStore, sectionID, title, due string, key int) dom.Task {
	t := m.addTask(sectionID, title, key)
	if due != "" {
		d := duedate.MustParseDate(due)
		t.DueDate = &d
		m.tasks[t.ID] = t
	}
	return t
}

func TestMyTasksBuckets(t *testing.T) {
	m := newMemStore()
	p := m.addProject("Launch", 0)
	s := m.addSection(p.ID, "To Do", 0)
	dueTask(m, s.ID, "late", "2026-03-13", 0)
	dueTask(m, s.ID, "now", "2026-03-14", 1)
	dueTask(m, s.ID, "next", "2026-03-15", 2)
	dueTask(m, s.ID, "later", "2026-03-20", 3)
	dueTask(m, s.ID, "someday", "", 4)
	done := dueTask(m, s.ID, "finished", "2026-03-01", 5)
	done.Status = dom.StatusCompleted
	m.tasks[done.ID] = done

	svc := NewViewService(fakeTasks{m}, nil, duedate.FixedClock(duedate.MustParseDate("2026-03-14")), nullLogger())
	got, err := svc.MyTasks(context.Background())
	if err != nil {
		t.Fatalf("my tasks: %v", err)
	}
	if got.Today.String() != "2026-03-14" {
		t.Fatalf("today = %s", got.Today)
	}
	want := map[duedate.Bucket]string{
		duedate.Overdue:     "late",
		duedate.DueToday:    "now",
		duedate.DueTomorrow: "next",
		duedate.Upcoming:    "later",
		duedate.NoDate:      "someday",
	}
	for b, title := range want {
		list := got.Buckets.Get(b)
		if len(list) != 1 || list[0].Title != title {
			t.Fatalf("bucket %s = %+v", b, list)
		}
	}
	if got.Buckets.Len() != 5 {
		t.Fatalf("completed task classified: %d", got.Buckets.Len())
	}
}

func TestReportGroupsByStatus(t *testing.T) {
	m := newMemStore()
	b := m.addProject("Beta", 0)
	a := m.addProject("Alpha", 1)
	archived := m.addProject("Old", 2)
	archivedP := m.projects[archived.ID]
	archivedP.IsArchived = true
	m.projects[archived.ID] = archivedP

	sb := m.addSection(b.ID, "S", 0)
	sa := m.addSection(a.ID, "S", 0)
	so := m.addSection(archived.ID, "S", 0)
	m.addTask(sb.ID, "beta-1", 0)
	m.addTask(sa.ID, "alpha-2", 2)
	m.addTask(sa.ID, "alpha-1", 1)
	m.addTask(so.ID, "old", 0)
	held := m.addTask(sa.ID, "held", 3)
	held.Status = dom.StatusOnHold
	m.tasks[held.ID] = held

	svc := NewViewService(fakeTasks{m}, nil, duedate.FixedClock(duedate.MustParseDate("2026-03-14")), nullLogger())
	report, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report) != 4 {
		t.Fatalf("groups = %d", len(report))
	}
	notStarted := report[dom.StatusNotStarted]
	titles := []string{}
	for _, v := range notStarted {
		titles = append(titles, v.Title)
	}
	if len(titles) != 3 || titles[0] != "alpha-1" || titles[1] != "alpha-2" || titles[2] != "beta-1" {
		t.Fatalf("not started = %v", titles)
	}
	if len(report[dom.StatusOnHold]) != 1 || len(report[dom.StatusCompleted]) != 0 {
		t.Fatalf("report = %+v", report)
	}
}

func TestViewsUseCacheUntilAWrite(t *testing.T) {
	m := newMemStore()
	p := m.addProject("Launch", 0)
	s := m.addSection(p.ID, "To Do", 0)
	m.addTask(s.ID, "a", 0)

	c := newTestViewCache(t)
	views := NewViewService(fakeTasks{m}, c, duedate.FixedClock(duedate.MustParseDate("2026-03-14")), nullLogger())
	tasks := NewTaskService(fakeProjects{m}, fakeSections{m}, fakeTasks{m}, c, nullLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := views.MyTasks(ctx); err != nil {
			t.Fatalf("my tasks: %v", err)
		}
	}
	if m.calls["ListOpen"] != 1 {
		t.Fatalf("ListOpen called %d times", m.calls["ListOpen"])
	}

	if _, err := tasks.Create(ctx, TaskInput{SectionID: s.ID, Title: "b"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, _ := views.MyTasks(ctx)
	if m.calls["ListOpen"] != 2 || got.Buckets.Len() != 2 {
		t.Fatalf("write did not invalidate: calls=%d len=%d", m.calls["ListOpen"], got.Buckets.Len())
	}
}

func TestTodayRollover(t *testing.T) {
	svc := NewViewService(fakeTasks{newMemStore()}, nil, duedate.FixedClock(duedate.MustParseDate("2026-03-14")), nullLogger())
	tests := []struct {
		since   string
		changed bool
	}{
		{"", false},
		{"2026-03-14", false},
		{"2026-03-13", true},
	}
	for _, tt := range tests {
		got := svc.Today(tt.since)
		if got.Today.String() != "2026-03-14" || got.Changed != tt.changed {
			t.Fatalf("Today(%q) = %+v", tt.since, got)
		}
	}
}
