package handlers

import (
	"net/http"

	"farm-backend/internal/cache"
	"farm-backend/internal/models"
	"farm-backend/internal/services"
	"farm-backend/pkg/utils"
)

type ExpenseHandler struct {
	Service *services.ExpenseService
}

func NewExpenseHandler(s *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: s}
}

func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req models.ExpenseRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	expense, err := h.Service.CreateExpense(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.Created(w, "Expense recorded successfully", expense)
}

func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	expense, err := h.Service.GetExpense(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, expenses)
}

// MonthlySummary totals ?month=YYYY-MM by category. The current month is
// used when the parameter is absent.
func (h *ExpenseHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.MonthlySummary(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	var req models.ExpenseRequest
	if err := decode(r, &req); err != nil {
		utils.Error(w, err)
		return
	}

	expense, err := h.Service.UpdateExpense(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.JSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	if err := h.Service.DeleteExpense(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}
	cache.InvalidateReportCaches(r.Context())
	utils.Message(w, "Expense deleted successfully")
}
