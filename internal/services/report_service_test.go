package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"testing"
	"time"

	"farm-backend/internal/apperr"
	"farm-backend/internal/calc"
	"farm-backend/internal/models"
	"farm-backend/internal/timeutil"
)

type staticTrades []*models.TradeRecord

func (s staticTrades) Records(context.Context) ([]*models.TradeRecord, error) { return s, nil }

type staticExpenses []*models.Expense

func (s staticExpenses) ListExpenses(context.Context) ([]*models.Expense, error) { return s, nil }

type staticMortality []*models.MortalityRecord

func (s staticMortality) ListRecords(context.Context) ([]*models.MortalityRecord, error) { return s, nil }

func (s staticMortality) ListBetween(_ context.Context, from, to time.Time) ([]*models.MortalityRecord, error) {
	var out []*models.MortalityRecord
	for _, m := range s {
		if !m.Date.Before(from) && m.Date.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

type recordingArchiver struct {
	name string
	data []byte
}

func (a *recordingArchiver) Upload(_ context.Context, name, _ string, data []byte) (string, error) {
	a.name, a.data = name, data
	return "reports/" + name, nil
}

func day(s string) time.Time {
	t, _ := timeutil.ParseDate(s)
	return t
}

func trade(party, date string, cages int, rate, avg, advance float64) *models.TradeRecord {
	r := &models.TradeRecord{PartyName: party, Date: day(date), Cages: cages, Rate: rate, AvgWeight: avg, AdvancePaid: advance}
	r.Recompute(calc.Policy{BirdsPerCage: 16})
	return r
}

func testReportService(archive Archiver) *ReportService {
	purchases := staticTrades{
		trade("Farm A", "2024-01-01", 10, 50, 1.5, 2000),  // invoice 12000
		trade(" farm a", "2024-01-03", 5, 50, 1.5, 0),     // invoice 6000
		trade("Farm B", "2024-02-10", 2, 100, 2, 6400),    // invoice 6400
	}
	sales := staticTrades{trade("Shop", "2024-01-05", 10, 60, 1.5, 0)}  // 14400
	godown := staticTrades{trade("Walk-in", "2024-01-06", 1, 70, 2, 0)} // 2240
	expenses := staticExpenses{{Amount: 1000}, {Amount: 640}}
	mortality := staticMortality{
		{Date: day("2024-01-02"), BirdCount: 12},
		{Date: day("2024-01-20"), BirdCount: 6},
		{Date: day("2024-03-01"), BirdCount: 50},
	}
	return NewReportService(purchases, sales, godown, expenses, mortality, archive, nil)
}

func TestSummary(t *testing.T) {
	s, err := testReportService(nil).Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.Purchases.Count != 3 || s.Purchases.Birds != 272 || s.Purchases.Invoice != 24400 {
		t.Errorf("purchases = %+v", s.Purchases)
	}
	if s.Purchases.Outstanding != 16000 {
		t.Errorf("purchase outstanding = %v, want 16000", s.Purchases.Outstanding)
	}
	if s.Expenses != 1640 || s.MortalityBirds != 68 {
		t.Errorf("expenses = %v, mortality = %d", s.Expenses, s.MortalityBirds)
	}
	// 14400 + 2240 - 24400 - 1640
	if s.GrossMargin != -9400 {
		t.Errorf("gross margin = %v, want -9400", s.GrossMargin)
	}
}

func TestOutstandingByParty(t *testing.T) {
	got, err := testReportService(nil).FarmerOutstanding(context.Background())
	if err != nil {
		t.Fatalf("FarmerOutstanding() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parties = %+v", got)
	}
	if got[0].Name != "Farm A" || got[0].Records != 2 || got[0].Balance != 16000 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Name != "Farm B" || got[1].Balance != 0 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestMortalityRate(t *testing.T) {
	svc := testReportService(nil)

	got, err := svc.MortalityRate(context.Background(), day("2024-01-01"), day("2024-01-31"))
	if err != nil {
		t.Fatalf("MortalityRate() error = %v", err)
	}
	// 18 deaths against 240 bought in January
	if got.Deaths != 18 || got.Incidents != 2 || got.BirdsPurchased != 240 || math.Abs(got.RatePercent-7.5) > 1e-9 {
		t.Errorf("report = %+v", got)
	}
	if got.From != "2024-01-01" || got.To != "2024-01-31" {
		t.Errorf("range = %s..%s", got.From, got.To)
	}

	none, err := svc.MortalityRate(context.Background(), day("2024-03-01"), day("2024-03-31"))
	if err != nil {
		t.Fatalf("MortalityRate() error = %v", err)
	}
	if none.Deaths != 50 || none.BirdsPurchased != 0 || none.RatePercent != 0 {
		t.Errorf("report without purchases = %+v", none)
	}

	if _, err := svc.MortalityRate(context.Background(), day("2024-02-01"), day("2024-01-01")); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("inverted range error = %v", err)
	}
}

func TestSummaryCSV(t *testing.T) {
	data, err := testReportService(nil).SummaryCSV(context.Background())
	if err != nil {
		t.Fatalf("SummaryCSV() error = %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("csv parse error = %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("rows = %d, want 7", len(rows))
	}
	if rows[1][0] != "Purchases" || rows[1][5] != "24400.00" {
		t.Errorf("purchase row = %v", rows[1])
	}
	if rows[6][4] != "-9400.00" {
		t.Errorf("margin row = %v", rows[6])
	}
}

func TestArchiveSummary(t *testing.T) {
	if _, err := testReportService(nil).ArchiveSummary(context.Background()); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("ArchiveSummary() without storage error = %v", err)
	}

	arch := &recordingArchiver{}
	key, err := testReportService(arch).ArchiveSummary(context.Background())
	if err != nil {
		t.Fatalf("ArchiveSummary() error = %v", err)
	}
	if key != "reports/"+arch.name || !bytes.HasPrefix(arch.data, []byte("%PDF")) {
		t.Errorf("key = %s, archived %d bytes", key, len(arch.data))
	}
}
