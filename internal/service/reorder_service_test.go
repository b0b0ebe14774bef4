package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/josh-kartchner/traction/internal/ordering"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("shutdown tracer provider: %v", err)
		}
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func attributesToMap(attrs []attribute.KeyValue) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func TestReorderApplyWritesBatch(t *testing.T) {
	exporter := setupTestTracer(t)
	r := &fakeReorder{}
	svc := NewReorderService(r, nil, nullLogger())

	items := []ordering.Item{{ID: "a", SortOrder: 0}, {ID: "b", SortOrder: 1}}
	if err := svc.Apply(context.Background(), ordering.Tasks, items); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if r.calls != 1 || r.kind != ordering.Tasks || len(r.items) != 2 {
		t.Fatalf("repo saw %d calls, %s, %v", r.calls, r.kind, r.items)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != reorderSpanName {
		t.Fatalf("spans = %v", spans)
	}
	attrs := attributesToMap(spans[0].Attributes)
	if attrs["traction.reorder.type"] != "tasks" || attrs["traction.reorder.items"] != int64(2) {
		t.Fatalf("attrs = %v", attrs)
	}
	if spans[0].Status.Code != codes.Ok {
		t.Fatalf("status = %v", spans[0].Status)
	}
}

func TestReorderApplyRejectsBeforePersistence(t *testing.T) {
	setupTestTracer(t)
	tests := []struct {
		name  string
		kind  ordering.Kind
		items []ordering.Item
	}{
		{"missing type", "", []ordering.Item{{ID: "a"}}},
		{"unknown type", "comments", []ordering.Item{{ID: "a"}}},
		{"empty items", ordering.Sections, nil},
		{"duplicate ids", ordering.Sections, []ordering.Item{{ID: "a"}, {ID: "a", SortOrder: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReorder{}
			err := NewReorderService(r, nil, nullLogger()).Apply(context.Background(), tt.kind, tt.items)
			if !errors.Is(err, ordering.ErrInvalidBatch) {
				t.Fatalf("err = %v", err)
			}
			if r.calls != 0 {
				t.Fatal("invalid batch reached the repository")
			}
		})
	}
}

func TestReorderApplyMapsErrors(t *testing.T) {
	exporter := setupTestTracer(t)
	items := []ordering.Item{{ID: "a", SortOrder: 0}}

	r := &fakeReorder{err: fmt.Errorf("reorder tasks %q: %w", "a", pgx.ErrNoRows)}
	if err := NewReorderService(r, nil, nullLogger()).Apply(context.Background(), ordering.Tasks, items); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}

	boom := errors.New("connection reset")
	r = &fakeReorder{err: boom}
	if err := NewReorderService(r, nil, nullLogger()).Apply(context.Background(), ordering.Tasks, items); !errors.Is(err, boom) {
		t.Fatalf("driver err = %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("spans = %d", len(spans))
	}
	for _, s := range spans {
		if s.Status.Code != codes.Error {
			t.Fatalf("span %s status = %v", s.Name, s.Status)
		}
	}
}
