package models

import "time"

// TradeTotals aggregates one kind of trade record.
type TradeTotals struct {
	Count       int     `json:"count"`
	Birds       int     `json:"birds"`
	Weight      float64 `json:"weight"`
	Amount      float64 `json:"amount"`
	Invoice     float64 `json:"invoice"`
	Outstanding float64 `json:"outstanding"`
	Balance     float64 `json:"balance"`
}

// ReportSummary is the dashboard overview across every entity.
type ReportSummary struct {
	GeneratedAt    time.Time   `json:"generated_at"`
	Purchases      TradeTotals `json:"purchases"`
	Sales          TradeTotals `json:"sales"`
	GodownSales    TradeTotals `json:"godown_sales"`
	Expenses       float64     `json:"expenses"`
	MortalityBirds int         `json:"mortality_birds"`
	// GrossMargin is sales plus godown sales invoices, less purchase
	// invoices and expenses.
	GrossMargin float64 `json:"gross_margin"`
}

// PartyOutstanding is what is still owed on one counterparty's records.
type PartyOutstanding struct {
	Name        string  `json:"name"`
	Records     int     `json:"records"`
	Invoice     float64 `json:"invoice"`
	Outstanding float64 `json:"outstanding"`
	Balance     float64 `json:"balance"`
}

// MortalityReport relates deaths in a period to birds bought in it.
type MortalityReport struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	Deaths         int     `json:"deaths"`
	Incidents      int     `json:"incidents"`
	BirdsPurchased int     `json:"birds_purchased"`
	RatePercent    float64 `json:"rate_percent"`
}
