package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"farm-backend/internal/apperr"
	"farm-backend/internal/cache"
	"farm-backend/internal/metrics"
	"farm-backend/internal/models"
	"farm-backend/internal/timeutil"
)

// TradeLister yields recomputed trade records. *TradeService satisfies it.
type TradeLister interface {
	Records(ctx context.Context) ([]*models.TradeRecord, error)
}

type ExpenseLister interface {
	ListExpenses(ctx context.Context) ([]*models.Expense, error)
}

type MortalityLister interface {
	ListRecords(ctx context.Context) ([]*models.MortalityRecord, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.MortalityRecord, error)
}

// Archiver stores a generated file. *storage.S3Archiver satisfies it.
type Archiver interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

type ReportService struct {
	Purchases   TradeLister
	Sales       TradeLister
	GodownSales TradeLister
	Expenses    ExpenseLister
	Mortality   MortalityLister
	Archive     Archiver
	logger      *zap.Logger
}

func NewReportService(
	purchases, sales, godownSales TradeLister,
	expenses ExpenseLister,
	mortality MortalityLister,
	archive Archiver,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		Purchases:   purchases,
		Sales:       sales,
		GodownSales: godownSales,
		Expenses:    expenses,
		Mortality:   mortality,
		Archive:     archive,
		logger:      logger,
	}
}

// Summary returns the overview, from Redis when a fresh copy is cached.
func (s *ReportService) Summary(ctx context.Context) (*models.ReportSummary, error) {
	if data, ok := cache.GetCached(ctx, cache.ReportSummaryKey); ok {
		var cached models.ReportSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	purchases, err := s.Purchases.Records(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.Sales.Records(ctx)
	if err != nil {
		return nil, err
	}
	godown, err := s.GodownSales.Records(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Expenses.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	mortality, err := s.Mortality.ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(purchases, sales, godown, expenses, mortality)
	summary.GeneratedAt = timeutil.Now()

	if data, err := json.Marshal(summary); err == nil {
		cache.SetCached(ctx, cache.ReportSummaryKey, data, cache.ReportTTL)
	}
	return summary, nil
}

// TotalTrades adds up a set of trade records.
func TotalTrades(records []*models.TradeRecord) models.TradeTotals {
	var t models.TradeTotals
	for _, r := range records {
		t.Count++
		t.Birds += r.BirdCount
		t.Weight += r.TotalWeight
		t.Amount += r.TotalAmount
		t.Invoice += r.TotalInvoice
		t.Outstanding += r.OutstandingPayment
		t.Balance += r.BalanceAmount
	}
	return t
}

// BuildSummary reduces the raw lists into the overview. It does no rounding.
func BuildSummary(
	purchases, sales, godown []*models.TradeRecord,
	expenses []*models.Expense,
	mortality []*models.MortalityRecord,
) *models.ReportSummary {
	summary := &models.ReportSummary{
		Purchases:   TotalTrades(purchases),
		Sales:       TotalTrades(sales),
		GodownSales: TotalTrades(godown),
	}
	for _, e := range expenses {
		summary.Expenses += e.Amount
	}
	for _, m := range mortality {
		summary.MortalityBirds += m.BirdCount
	}
	summary.GrossMargin = summary.Sales.Invoice + summary.GodownSales.Invoice -
		summary.Purchases.Invoice - summary.Expenses
	return summary
}

// FarmerOutstanding lists what is still owed per farmer, largest balance first.
func (s *ReportService) FarmerOutstanding(ctx context.Context) ([]models.PartyOutstanding, error) {
	if data, ok := cache.GetCached(ctx, cache.FarmerOutstandingKey); ok {
		var cached []models.PartyOutstanding
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	purchases, err := s.Purchases.Records(ctx)
	if err != nil {
		return nil, err
	}
	rows := OutstandingByParty(purchases)
	if data, err := json.Marshal(rows); err == nil {
		cache.SetCached(ctx, cache.FarmerOutstandingKey, data, cache.ReportTTL)
	}
	return rows, nil
}

// OutstandingByParty groups records by counterparty name, ignoring case and
// surrounding space. The first spelling seen is reported.
func OutstandingByParty(records []*models.TradeRecord) []models.PartyOutstanding {
	index := map[string]int{}
	out := []models.PartyOutstanding{}
	for _, r := range records {
		key := strings.ToLower(strings.TrimSpace(r.PartyName))
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.PartyOutstanding{Name: strings.TrimSpace(r.PartyName)})
		}
		out[i].Records++
		out[i].Invoice += r.TotalInvoice
		out[i].Outstanding += r.OutstandingPayment
		out[i].Balance += r.BalanceAmount
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Balance > out[j].Balance })
	return out
}

// MortalityRate reports deaths in [from, to] against birds purchased in the
// same days. Zero dates default to the current month so far.
func (s *ReportService) MortalityRate(ctx context.Context, from, to time.Time) (*models.MortalityReport, error) {
	if from.IsZero() {
		from = timeutil.StartOfMonth(timeutil.Now())
	}
	if to.IsZero() {
		to = timeutil.Today()
	}
	if to.Before(from) {
		return nil, apperr.Validation("to must not be before from")
	}
	end := to.AddDate(0, 0, 1)

	deaths, err := s.Mortality.ListBetween(ctx, from, end)
	if err != nil {
		return nil, err
	}
	purchases, err := s.Purchases.Records(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeMortalityRate(from, end, deaths, purchases), nil
}

// ComputeMortalityRate works over the half-open range [from, end).
func ComputeMortalityRate(from, end time.Time, deaths []*models.MortalityRecord, purchases []*models.TradeRecord) *models.MortalityReport {
	report := &models.MortalityReport{
		From: timeutil.FormatDate(from),
		To:   timeutil.FormatDate(end.AddDate(0, 0, -1)),
	}
	for _, d := range deaths {
		report.Deaths += d.BirdCount
		report.Incidents++
	}
	for _, p := range purchases {
		if !p.Date.Before(from) && p.Date.Before(end) {
			report.BirdsPurchased += p.BirdCount
		}
	}
	if report.BirdsPurchased > 0 {
		report.RatePercent = float64(report.Deaths) / float64(report.BirdsPurchased) * 100
	}
	return report
}

func money(v float64) string { return fmt.Sprintf("%.2f", v) }

// SummaryCSV renders the overview with two-decimal amounts.
func (s *ReportService) SummaryCSV(ctx context.Context) ([]byte, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Section", "Records", "Birds", "Weight (kg)", "Amount", "Invoice", "Outstanding", "Balance"})
	for _, row := range []struct {
		name string
		t    models.TradeTotals
	}{
		{"Purchases", summary.Purchases},
		{"Sales", summary.Sales},
		{"Godown sales", summary.GodownSales},
	} {
		w.Write([]string{
			row.name,
			fmt.Sprintf("%d", row.t.Count),
			fmt.Sprintf("%d", row.t.Birds),
			money(row.t.Weight),
			money(row.t.Amount),
			money(row.t.Invoice),
			money(row.t.Outstanding),
			money(row.t.Balance),
		})
	}
	w.Write([]string{"Expenses", "", "", "", money(summary.Expenses), "", "", ""})
	w.Write([]string{"Mortality", "", fmt.Sprintf("%d", summary.MortalityBirds), "", "", "", "", ""})
	w.Write([]string{"Gross margin", "", "", "", money(summary.GrossMargin), "", "", ""})

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SummaryPDF renders the overview as a one-page A4 document.
func (s *ReportService) SummaryPDF(ctx context.Context) ([]byte, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return RenderSummaryPDF(summary)
}

func RenderSummaryPDF(summary *models.ReportSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Farm Trading - Summary Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	generated := summary.GeneratedAt
	if generated.IsZero() {
		generated = timeutil.Now()
	}
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", generated.In(timeutil.IST).Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	headers := []string{"Section", "Records", "Birds", "Invoice", "Outstanding", "Balance"}
	widths := []float64{40, 22, 22, 36, 35, 35}
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, h, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 10)
	for _, row := range []struct {
		name string
		t    models.TradeTotals
	}{
		{"Purchases", summary.Purchases},
		{"Sales", summary.Sales},
		{"Godown sales", summary.GodownSales},
	} {
		pdf.CellFormat(widths[0], 6, row.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", row.t.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", row.t.Birds), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, "Rs. "+money(row.t.Invoice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, "Rs. "+money(row.t.Outstanding), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, "Rs. "+money(row.t.Balance), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, "Expenses: Rs. "+money(summary.Expenses), "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, fmt.Sprintf("Mortality: %d birds", summary.MortalityBirds), "1", 1, "C", false, 0, "")

	if summary.GrossMargin >= 0 {
		pdf.SetFillColor(200, 255, 200)
	} else {
		pdf.SetFillColor(255, 200, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, "Gross Margin: Rs. "+money(summary.GrossMargin), "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchiveSummary uploads today's summary PDF and returns its object key.
func (s *ReportService) ArchiveSummary(ctx context.Context) (string, error) {
	if s.Archive == nil {
		return "", apperr.Unavailable("report archive storage is not configured")
	}

	data, err := s.SummaryPDF(ctx)
	if err != nil {
		metrics.ReportArchivesTotal.WithLabelValues("error").Inc()
		return "", err
	}

	name := fmt.Sprintf("summary_%s.pdf", timeutil.Now().Format("20060102_150405"))
	key, err := s.Archive.Upload(ctx, name, "application/pdf", data)
	if err != nil {
		metrics.ReportArchivesTotal.WithLabelValues("error").Inc()
		s.logger.Error("report archive failed", zap.Error(err))
		return "", err
	}

	metrics.ReportArchivesTotal.WithLabelValues("success").Inc()
	s.logger.Info("report archived", zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}
