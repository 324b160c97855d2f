package database

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

// fakeSchema records ALTER TABLE ADD COLUMN statements like Postgres would.
type fakeSchema struct {
	mu      sync.Mutex
	columns map[string]int
	fail    map[string]error
	calls   int
}

func newFakeSchema(existing ...string) *fakeSchema {
	s := &fakeSchema{columns: map[string]int{}, fail: map[string]error{}}
	for _, c := range existing {
		s.columns[c] = 1
	}
	return s
}

func (s *fakeSchema) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	// ALTER TABLE "t" ADD COLUMN "name" TYPE
	fields := strings.Fields(sql)
	col := strings.Trim(fields[5], `"`)
	if err, ok := s.fail[col]; ok {
		return pgconn.CommandTag{}, err
	}
	if s.columns[col] > 0 {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: "42701", Message: "column already exists"}
	}
	s.columns[col]++
	return pgconn.NewCommandTag("ALTER TABLE"), nil
}

var testColumns = []Column{
	{Name: "invoice_number", Definition: "VARCHAR(50)"},
	{Name: "rate", Definition: "DOUBLE PRECISION"},
	{Name: "cage_details", Definition: "JSONB"},
}

func TestReconcileIsIdempotent(t *testing.T) {
	schema := newFakeSchema("rate")
	r := NewReconciler(schema, nil)

	first := r.Reconcile(context.Background(), "purchases", testColumns)
	if len(first.Added) != 2 || len(first.Existing) != 1 || len(first.Warnings) != 0 {
		t.Fatalf("first pass = %+v", first)
	}

	second := r.Reconcile(context.Background(), "purchases", testColumns)
	if len(second.Added) != 0 || len(second.Existing) != 3 || len(second.Warnings) != 0 {
		t.Fatalf("second pass = %+v", second)
	}

	for name, n := range schema.columns {
		if n != 1 {
			t.Errorf("column %s created %d times", name, n)
		}
	}
}

func TestReconcileOtherFailuresAreWarnings(t *testing.T) {
	schema := newFakeSchema()
	schema.fail["rate"] = &pgconn.PgError{Code: "42501", Message: "permission denied"}
	r := NewReconciler(schema, nil)

	report := r.Reconcile(context.Background(), "sales", testColumns)
	if len(report.Warnings) != 1 || report.Warnings[0].Column != "rate" {
		t.Fatalf("warnings = %+v", report.Warnings)
	}
	if len(report.Added) != 2 {
		t.Errorf("remaining columns should still be added, got %v", report.Added)
	}
}

func TestReconcileConcurrentCallers(t *testing.T) {
	schema := newFakeSchema()
	r := NewReconciler(schema, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Reconcile(context.Background(), "godown_sales", testColumns)
		}()
	}
	wg.Wait()

	if len(schema.columns) != len(testColumns) {
		t.Fatalf("columns = %v", schema.columns)
	}
	for name, n := range schema.columns {
		if n != 1 {
			t.Errorf("column %s created %d times", name, n)
		}
	}
}

func TestEnsureOnce(t *testing.T) {
	schema := newFakeSchema()
	r := NewReconciler(schema, nil)

	r.EnsureOnce(context.Background(), "purchases", testColumns)
	r.EnsureOnce(context.Background(), "purchases", testColumns)
	if schema.calls != len(testColumns) {
		t.Fatalf("calls = %d, want %d", schema.calls, len(testColumns))
	}

	r.EnsureOnce(context.Background(), "sales", testColumns)
	if schema.calls != 2*len(testColumns) {
		t.Fatalf("calls = %d, want %d", schema.calls, 2*len(testColumns))
	}
}

func TestEnsureOnceRetriesAfterConnectionFailure(t *testing.T) {
	schema := newFakeSchema()
	schema.fail["invoice_number"] = context.DeadlineExceeded
	r := NewReconciler(schema, nil)

	r.EnsureOnce(context.Background(), "purchases", testColumns)
	delete(schema.fail, "invoice_number")
	r.EnsureOnce(context.Background(), "purchases", testColumns)

	if schema.columns["invoice_number"] != 1 {
		t.Fatalf("invoice_number not added on retry: %v", schema.columns)
	}
}
