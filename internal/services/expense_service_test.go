package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
	"farm-backend/internal/timeutil"
)

type fakeExpenseStore struct {
	rows     []*models.Expense
	from, to time.Time
}

func (f *fakeExpenseStore) Create(_ context.Context, e *models.Expense) error {
	e.ID = len(f.rows) + 1
	f.rows = append(f.rows, e)
	return nil
}

func (f *fakeExpenseStore) Get(_ context.Context, id int) (*models.Expense, error) {
	for _, e := range f.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperr.NotFound("expense", id)
}

func (f *fakeExpenseStore) List(context.Context) ([]*models.Expense, error) { return f.rows, nil }

func (f *fakeExpenseStore) ListBetween(_ context.Context, from, to time.Time) ([]*models.Expense, error) {
	f.from, f.to = from, to
	var out []*models.Expense
	for _, e := range f.rows {
		if !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseStore) Update(_ context.Context, e *models.Expense) error {
	for i, row := range f.rows {
		if row.ID == e.ID {
			f.rows[i] = e
			return nil
		}
	}
	return apperr.NotFound("expense", e.ID)
}

func (f *fakeExpenseStore) Delete(_ context.Context, id int) error {
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("expense", id)
}

func TestCreateExpenseValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.ExpenseRequest
		ok   bool
	}{
		{"valid", models.ExpenseRequest{Date: "2024-03-02", Category: "Feed", Amount: 1200}, true},
		{"no date", models.ExpenseRequest{Category: "Feed", Amount: 1200}, false},
		{"no category", models.ExpenseRequest{Date: "2024-03-02", Category: "  ", Amount: 1200}, false},
		{"zero amount", models.ExpenseRequest{Date: "2024-03-02", Category: "Feed"}, false},
		{"negative amount", models.ExpenseRequest{Date: "2024-03-02", Category: "Feed", Amount: -5}, false},
		{"infinite amount", models.ExpenseRequest{Date: "2024-03-02", Category: "Feed", Amount: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExpenseService(&fakeExpenseStore{}, nil)
			_, err := svc.CreateExpense(context.Background(), &tt.req)
			if tt.ok && err != nil {
				t.Fatalf("CreateExpense() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("CreateExpense() error = %v, want validation error", err)
			}
		})
	}
}

func TestMonthlySummary(t *testing.T) {
	store := &fakeExpenseStore{}
	svc := NewExpenseService(store, nil)
	ctx := context.Background()

	for _, req := range []models.ExpenseRequest{
		{Date: "2024-03-01", Category: "Feed", Amount: 500},
		{Date: "2024-03-15", Category: "Fuel", Amount: 300},
		{Date: "2024-03-31", Category: "Feed", Amount: 250},
		{Date: "2024-04-01", Category: "Feed", Amount: 999},
	} {
		req := req
		if _, err := svc.CreateExpense(ctx, &req); err != nil {
			t.Fatalf("CreateExpense() error = %v", err)
		}
	}

	summary, err := svc.MonthlySummary(ctx, "2024-03")
	if err != nil {
		t.Fatalf("MonthlySummary() error = %v", err)
	}
	if summary.Month != "2024-03" || summary.Total != 1050 {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.Categories) != 2 || summary.Categories[0].Category != "Feed" || summary.Categories[0].Total != 750 || summary.Categories[0].Count != 2 {
		t.Errorf("categories = %+v", summary.Categories)
	}
	if got := store.to.Sub(store.from); got != 31*24*time.Hour {
		t.Errorf("range = %v, want 31 days", got)
	}
	if store.from.Location() != timeutil.IST {
		t.Errorf("month start not in IST: %v", store.from)
	}

	if _, err := svc.MonthlySummary(ctx, "March"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("MonthlySummary(bad) error = %v", err)
	}
}

func TestSummarizeExpensesEmpty(t *testing.T) {
	s := SummarizeExpenses("2024-01", nil)
	if s.Total != 0 || s.Categories == nil || len(s.Categories) != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}
