package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"farm-backend/internal/models"
)

type ExpenseRepository struct {
	DB *pgxpool.Pool
}

func NewExpenseRepository(db *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{DB: db}
}

const expenseColumns = `id, expense_date, category, amount::float8, payment_mode, description, created_at, updated_at`

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &e.PaymentMode, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *ExpenseRepository) Create(ctx context.Context, e *models.Expense) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO expenses(expense_date, category, amount, payment_mode, description)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		e.Date, e.Category, e.Amount, e.PaymentMode, e.Description,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *ExpenseRepository) Get(ctx context.Context, id int) (*models.Expense, error) {
	e, err := scanExpense(r.DB.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err, "expense", id)
	}
	return e, nil
}

func (r *ExpenseRepository) List(ctx context.Context) ([]*models.Expense, error) {
	return r.query(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY expense_date DESC, id DESC`)
}

// ListBetween returns expenses dated in [from, to).
func (r *ExpenseRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Expense, error) {
	return r.query(ctx,
		`SELECT `+expenseColumns+` FROM expenses
         WHERE expense_date >= $1 AND expense_date < $2
         ORDER BY expense_date DESC, id DESC`, from, to)
}

func (r *ExpenseRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Expense, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *ExpenseRepository) Update(ctx context.Context, e *models.Expense) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE expenses SET expense_date=$1, category=$2, amount=$3, payment_mode=$4, description=$5,
         updated_at=CURRENT_TIMESTAMP WHERE id=$6`,
		e.Date, e.Category, e.Amount, e.PaymentMode, e.Description, e.ID)
	return affected(tag, err, "expense", e.ID)
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM expenses WHERE id=$1`, id)
	return affected(tag, err, "expense", id)
}
