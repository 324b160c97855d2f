package models

import "time"

// Expense categories offered by the entry form. Other values are accepted.
var ExpenseCategories = []string{"Feed", "Fuel", "Labour", "Medicine", "Rent", "Transport", "Maintenance", "Other"}

type Expense struct {
	ID          int       `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	PaymentMode string    `json:"payment_mode"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExpenseRequest carries the date as text so any accepted layout can be used.
type ExpenseRequest struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	PaymentMode string  `json:"payment_mode"`
	Description string  `json:"description"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// ExpenseSummary totals one month of expenses by category.
type ExpenseSummary struct {
	Month      string          `json:"month"`
	Total      float64         `json:"total"`
	Categories []CategoryTotal `json:"categories"`
}
