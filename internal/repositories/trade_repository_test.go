package repositories

import (
	"strings"
	"testing"

	"farm-backend/internal/models"
)

func TestLegacyUpdateClearsWideColumns(t *testing.T) {
	r := &TradeRepository{Profile: models.PurchaseProfile}
	cols := r.legacyColumns()
	query := updateQuery("purchases", cols, []string{"party_name", "cages", "rate", "entry_date"})

	for _, want := range []string{
		"UPDATE purchases SET ",
		"order_number = $1",
		"supplier = $2",
		"cage_quantity = $6",
		"party_name = NULL",
		"cages = NULL",
		"rate = NULL",
		"entry_date = NULL",
		"updated_at = CURRENT_TIMESTAMP",
		"WHERE id = $11",
	} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q is missing %q", query, want)
		}
	}
	if len(legacyArgs(&models.TradeRecord{})) != len(cols) {
		t.Errorf("legacy args and columns differ in length")
	}
}

func TestWideUpdateClearsNothing(t *testing.T) {
	r := &TradeRepository{Profile: models.SaleProfile}
	cols := r.wideColumns()
	query := updateQuery("sales", cols, nil)

	if strings.Contains(query, "NULL") {
		t.Errorf("wide update should not clear columns: %q", query)
	}
	if !strings.HasSuffix(query, "WHERE id = $38") {
		t.Errorf("id placeholder: %q", query)
	}
	if len(wideArgs(&models.TradeRecord{})) != len(cols) {
		t.Errorf("wide args and columns differ in length")
	}
}

func TestLegacyColumnsFollowProfile(t *testing.T) {
	for _, p := range []models.TradeProfile{models.PurchaseProfile, models.SaleProfile, models.GodownSaleProfile} {
		r := &TradeRepository{Profile: p}
		if got := r.legacyColumns()[1]; got != p.LegacyPartyField {
			t.Errorf("%s: party column = %q, want %q", p.Entity, got, p.LegacyPartyField)
		}
	}
}
