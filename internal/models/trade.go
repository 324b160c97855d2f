package models

import (
	"encoding/json"
	"time"

	"farm-backend/internal/calc"
	"farm-backend/internal/timeutil"
)

// TradeProfile describes one kind of trade record. Purchases, sales and
// godown sales share a single pipeline and differ only in these values.
type TradeProfile struct {
	Entity   string // metric and event label, e.g. "purchase"
	Label    string // human name, e.g. "Purchase"
	Table    string
	Sequence string
	Prefix   string

	// PartyField and PartyContactField are the current JSON names of the
	// counterparty; LegacyPartyField is the old name, which is also the
	// narrow-schema column.
	PartyField        string
	PartyContactField string
	LegacyPartyField  string
	// DateField is the entity-specific spelling of the record date.
	DateField string

	// Clamp floors outstanding and balance at zero.
	Clamp bool
}

var (
	PurchaseProfile = TradeProfile{
		Entity:            "purchase",
		Label:             "Purchase",
		Table:             "purchases",
		Sequence:          "purchase_reference_seq",
		Prefix:            "PO-",
		PartyField:        "farmerName",
		PartyContactField: "farmerContact",
		LegacyPartyField:  "supplier",
		DateField:         "purchaseDate",
	}

	SaleProfile = TradeProfile{
		Entity:            "sale",
		Label:             "Sale",
		Table:             "sales",
		Sequence:          "sale_reference_seq",
		Prefix:            "SL-",
		PartyField:        "retailerName",
		PartyContactField: "retailerContact",
		LegacyPartyField:  "customer",
		DateField:         "saleDate",
	}

	GodownSaleProfile = TradeProfile{
		Entity:            "godown_sale",
		Label:             "Godown sale",
		Table:             "godown_sales",
		Sequence:          "godown_sale_reference_seq",
		Prefix:            "GS-",
		PartyField:        "customerName",
		PartyContactField: "customerContact",
		LegacyPartyField:  "customer",
		DateField:         "saleDate",
		Clamp:             true,
	}
)

// Payment types.
const (
	PaymentPaid   = "Paid"
	PaymentCredit = "Credit"
)

// TradeRecord is the single internal shape of a purchase, sale or godown sale.
type TradeRecord struct {
	ID            int
	InvoiceNumber string
	Date          time.Time
	PartyName     string
	PartyContact  string
	Location      string
	VehicleNumber string
	PaymentType   string
	Notes         string
	BirdType      string

	Cages            int
	Rate             float64
	AvgWeight        float64
	TransportCharges float64
	LoadingCharges   float64
	Commission       float64
	OtherCharges     float64
	Deductions       float64
	AdvancePaid      float64
	TotalPaymentMade float64
	PaymentMode      string
	DueDate          time.Time
	CageDetails      json.RawMessage

	calc.Derived

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalcInput extracts the fields the derived values depend on.
func (r *TradeRecord) CalcInput() calc.Input {
	return calc.Input{
		Cages:            r.Cages,
		AvgWeight:        r.AvgWeight,
		Rate:             r.Rate,
		TransportCharges: r.TransportCharges,
		LoadingCharges:   r.LoadingCharges,
		Commission:       r.Commission,
		OtherCharges:     r.OtherCharges,
		Deductions:       r.Deductions,
		AdvancePaid:      r.AdvancePaid,
		TotalPaymentMade: r.TotalPaymentMade,
	}
}

// Recompute replaces the derived fields from the current base inputs.
func (r *TradeRecord) Recompute(p calc.Policy) {
	r.Derived = calc.Compute(r.CalcInput(), p)
}

// SortDate is the best date available for ordering lists.
func (r *TradeRecord) SortDate() time.Time {
	if !r.Date.IsZero() {
		return r.Date
	}
	return r.CreatedAt
}

// TradeResponse is the wire shape of a trade record. Every value appears under
// its current name and, where one exists, its legacy name, so older clients
// keep working.
type TradeResponse map[string]any

// NewTradeResponse translates a record into its wire shape.
func NewTradeResponse(r *TradeRecord, p TradeProfile) TradeResponse {
	date := timeutil.FormatDate(r.Date)
	cageDetails := r.CageDetails
	if len(cageDetails) == 0 {
		cageDetails = json.RawMessage("null")
	}

	resp := TradeResponse{
		"id":                 r.ID,
		"invoiceNumber":      r.InvoiceNumber,
		"date":               date,
		p.DateField:          date,
		p.PartyField:         r.PartyName,
		p.PartyContactField:  r.PartyContact,
		"location":           r.Location,
		"vehicleNumber":      r.VehicleNumber,
		"paymentType":        r.PaymentType,
		"notes":              r.Notes,
		"birdType":           r.BirdType,
		"cages":              r.Cages,
		"rate":               r.Rate,
		"avgWeight":          r.AvgWeight,
		"transportCharges":   r.TransportCharges,
		"loadingCharges":     r.LoadingCharges,
		"commission":         r.Commission,
		"otherCharges":       r.OtherCharges,
		"deductions":         r.Deductions,
		"advancePaid":        r.AdvancePaid,
		"totalPaymentMade":   r.TotalPaymentMade,
		"paymentMode":        r.PaymentMode,
		"dueDate":            timeutil.FormatDate(r.DueDate),
		"cageDetails":        cageDetails,
		"birdCount":          r.BirdCount,
		"totalWeight":        r.TotalWeight,
		"totalAmount":        r.TotalAmount,
		"totalInvoice":       r.TotalInvoice,
		"outstandingPayment": r.OutstandingPayment,
		"balanceAmount":      r.BalanceAmount,

		"order_number":       r.InvoiceNumber,
		p.LegacyPartyField:   r.PartyName,
		"order_date":         date,
		"description":        r.BirdType,
		"bird_quantity":      r.BirdCount,
		"cage_quantity":      r.Cages,
		"unit_cost":          r.Rate,
		"total_value":        r.TotalInvoice,
		"status":             r.PaymentType,
	}
	if !r.CreatedAt.IsZero() {
		resp["createdAt"] = r.CreatedAt
		resp["created_at"] = r.CreatedAt
	}
	if !r.UpdatedAt.IsZero() {
		resp["updatedAt"] = r.UpdatedAt
		resp["updated_at"] = r.UpdatedAt
	}
	return resp
}

// LegacyFieldPairs maps each legacy response name to the current name holding
// the same value.
func LegacyFieldPairs(p TradeProfile) map[string]string {
	return map[string]string{
		"order_number":     "invoiceNumber",
		p.LegacyPartyField: p.PartyField,
		"order_date":       "date",
		"description":      "birdType",
		"bird_quantity":    "birdCount",
		"cage_quantity":    "cages",
		"unit_cost":        "rate",
		"total_value":      "totalInvoice",
		"status":           "paymentType",
	}
}

// TradePreview is the result of computing a record without saving it.
type TradePreview struct {
	InvoiceNumber string  `json:"invoiceNumber"`
	Date          string  `json:"date"`
	PartyName     string  `json:"partyName"`
	PaymentType   string  `json:"paymentType"`
	Cages         int     `json:"cages"`
	Rate          float64 `json:"rate"`
	AvgWeight     float64 `json:"avgWeight"`
	calc.Derived
}
