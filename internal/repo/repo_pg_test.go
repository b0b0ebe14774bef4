package repo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	dom "github.com/josh-kartchner/traction/internal/domain"
	"github.com/josh-kartchner/traction/internal/duedate"
	"github.com/josh-kartchner/traction/internal/ordering"
	"github.com/josh-kartchner/traction/migrations"
)

// newTestPool migrates TRACTION_TEST_PG_DSN and empties it. Skipped when unset.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TRACTION_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TRACTION_TEST_PG_DSN not set")
	}
	ctx := context.Background()

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	_ = db.Close()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := pool.Exec(ctx, `TRUNCATE attachments, comments, tasks, sections, projects, users`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func seedProject(t *testing.T, pool *pgxpool.Pool, name string) dom.Project {
	t.Helper()
	p, err := NewPGProjectRepo(pool).CreateWithSections(context.Background(), dom.Project{Name: name}, dom.DefaultSections)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func TestPGCreateWithSections(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	p := seedProject(t, pool, "Garden")

	tree, err := NewPGProjectRepo(pool).GetTree(ctx, p.ID)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if len(tree.Sections) != 3 {
		t.Fatalf("sections = %d", len(tree.Sections))
	}
	for i, s := range tree.Sections {
		if s.Name != dom.DefaultSections[i] || s.SortOrder != i {
			t.Fatalf("section %d = %s/%d", i, s.Name, s.SortOrder)
		}
	}
}

func TestPGReorderIsAllOrNothing(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	p := seedProject(t, pool, "Garden")
	tasks := NewPGTaskRepo(pool)
	section := p.Sections[0].ID

	var ids []string
	for i, title := range []string{"dig", "plant", "water"} {
		tk, err := tasks.Create(ctx, dom.Task{SectionID: section, Title: title, Status: dom.StatusNotStarted, SortOrder: i})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		ids = append(ids, tk.ID)
	}
	reorder := NewPGReorderRepo(pool)

	err := reorder.Reorder(ctx, ordering.Tasks, []ordering.Item{
		{ID: ids[0], SortOrder: 2},
		{ID: "00000000-0000-0000-0000-000000000000", SortOrder: 0},
	})
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("err = %v, want ErrNoRows", err)
	}
	got, _ := tasks.Get(ctx, ids[0])
	if got.SortOrder != 0 {
		t.Fatalf("partial write: sort_order = %d", got.SortOrder)
	}

	if err := reorder.Reorder(ctx, ordering.Tasks, []ordering.Item{
		{ID: ids[0], SortOrder: 2}, {ID: ids[1], SortOrder: 0}, {ID: ids[2], SortOrder: 1},
	}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	keys, err := tasks.SortKeys(ctx, section)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := map[string]int{ids[0]: 2, ids[1]: 0, ids[2]: 1}
	for _, k := range keys {
		if want[k.ID] != k.SortOrder {
			t.Fatalf("%s = %d, want %d", k.ID, k.SortOrder, want[k.ID])
		}
	}
}

func TestPGDeleteSectionReassigning(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	p := seedProject(t, pool, "Garden")
	tasks := NewPGTaskRepo(pool)
	sections := NewPGSectionRepo(pool)
	from, to := p.Sections[1].ID, p.Sections[0].ID

	due := duedate.Date{Year: 2026, Month: 3, Day: 14}
	tk, err := tasks.Create(ctx, dom.Task{SectionID: from, Title: "weed", Status: dom.StatusInProgress, DueDate: &due})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if n, _ := sections.CountTasks(ctx, from); n != 1 {
		t.Fatalf("count = %d", n)
	}

	if err := sections.DeleteReassigning(ctx, from, to); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := tasks.Get(ctx, tk.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SectionID != to {
		t.Fatalf("section = %s, want %s", got.SectionID, to)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("due = %v", got.DueDate)
	}
	if _, err := sections.Get(ctx, from); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("section still present: %v", err)
	}
}
