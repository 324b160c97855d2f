package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"farm-backend/internal/apperr"
	"farm-backend/internal/models"
	"farm-backend/internal/timeutil"
)

type ExpenseStore interface {
	Create(ctx context.Context, e *models.Expense) error
	Get(ctx context.Context, id int) (*models.Expense, error)
	List(ctx context.Context) ([]*models.Expense, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Expense, error)
	Update(ctx context.Context, e *models.Expense) error
	Delete(ctx context.Context, id int) error
}

type ExpenseService struct {
	Repo     ExpenseStore
	Notifier ChangeNotifier
}

func NewExpenseService(repo ExpenseStore, notifier ChangeNotifier) *ExpenseService {
	return &ExpenseService{Repo: repo, Notifier: notifier}
}

func expenseFromRequest(req *models.ExpenseRequest) (*models.Expense, error) {
	date, ok := timeutil.ParseDate(req.Date)
	if !ok {
		return nil, apperr.Validation("date is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, apperr.Validation("category is required")
	}
	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return nil, apperr.Validation("amount must be greater than zero")
	}
	return &models.Expense{
		Date:        date,
		Category:    category,
		Amount:      req.Amount,
		PaymentMode: strings.TrimSpace(req.PaymentMode),
		Description: req.Description,
	}, nil
}

func (s *ExpenseService) CreateExpense(ctx context.Context, req *models.ExpenseRequest) (*models.Expense, error) {
	expense, err := expenseFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	notify(s.Notifier, "expense", ActionCreated, expense.ID)
	return expense, nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, id int) (*models.Expense, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ExpenseService) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.Repo.List(ctx)
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, id int, req *models.ExpenseRequest) (*models.Expense, error) {
	expense, err := expenseFromRequest(req)
	if err != nil {
		return nil, err
	}
	expense.ID = id
	if err := s.Repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	notify(s.Notifier, "expense", ActionUpdated, id)
	return s.Repo.Get(ctx, id)
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	notify(s.Notifier, "expense", ActionDeleted, id)
	return nil
}

// MonthlySummary totals a month ("2006-01") of expenses by category. An empty
// month means the current one.
func (s *ExpenseService) MonthlySummary(ctx context.Context, month string) (*models.ExpenseSummary, error) {
	start := timeutil.StartOfMonth(timeutil.Now())
	if month != "" {
		parsed, err := time.ParseInLocation(timeutil.MonthLayout, month, timeutil.IST)
		if err != nil {
			return nil, apperr.Validation("month must look like 2024-01")
		}
		start = parsed
	}
	end := start.AddDate(0, 1, 0)

	expenses, err := s.Repo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return SummarizeExpenses(start.Format(timeutil.MonthLayout), expenses), nil
}

// SummarizeExpenses groups expenses by category, largest total first.
func SummarizeExpenses(month string, expenses []*models.Expense) *models.ExpenseSummary {
	byCategory := map[string]*models.CategoryTotal{}
	summary := &models.ExpenseSummary{Month: month, Categories: []models.CategoryTotal{}}
	for _, e := range expenses {
		ct, ok := byCategory[e.Category]
		if !ok {
			ct = &models.CategoryTotal{Category: e.Category}
			byCategory[e.Category] = ct
		}
		ct.Total += e.Amount
		ct.Count++
		summary.Total += e.Amount
	}
	for _, ct := range byCategory {
		summary.Categories = append(summary.Categories, *ct)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].Total != summary.Categories[j].Total {
			return summary.Categories[i].Total > summary.Categories[j].Total
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})
	return summary
}
