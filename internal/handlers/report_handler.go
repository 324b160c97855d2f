package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"farm-backend/internal/apperr"
	"farm-backend/internal/services"
	"farm-backend/internal/timeutil"
	"farm-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// GetSummary handles GET /api/reports/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	summary, err := h.Service.Summary(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

// GetFarmerOutstanding handles GET /api/reports/farmers/outstanding
func (h *ReportHandler) GetFarmerOutstanding(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.FarmerOutstanding(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.List(w, rows)
}

// GetMortalityRate handles GET /api/reports/mortality
// Query params: from, to (YYYY-MM-DD; default to this month so far)
func (h *ReportHandler) GetMortalityRate(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		utils.Error(w, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		utils.Error(w, err)
		return
	}

	report, err := h.Service.MortalityRate(r.Context(), from, to)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

// GetSummaryCSV handles GET /api/reports/summary/csv
func (h *ReportHandler) GetSummaryCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	csvData, err := h.Service.SummaryCSV(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}

	filename := fmt.Sprintf("summary_%s.csv", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(csvData)
}

// GetSummaryPDF handles GET /api/reports/summary/pdf
func (h *ReportHandler) GetSummaryPDF(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	pdfData, err := h.Service.SummaryPDF(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}

	filename := fmt.Sprintf("summary_%s.pdf", timeutil.Now().Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(pdfData)
}

// ArchiveSummary handles POST /api/reports/archive
func (h *ReportHandler) ArchiveSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	key, err := h.Service.ArchiveSummary(ctx)
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "key": key})
}

func queryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, ok := timeutil.ParseDate(raw)
	if !ok {
		return time.Time{}, apperr.Validation("Invalid %s date. Use YYYY-MM-DD", name)
	}
	return t, nil
}
