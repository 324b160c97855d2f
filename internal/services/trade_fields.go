package services

import (
	"strings"

	"farm-backend/internal/coerce"
	"farm-backend/internal/models"
)

// Canonical input names of the trade fields. The party fields are spelled
// per profile.
const (
	fieldInvoice   = "invoiceNumber"
	fieldDate      = "date"
	fieldParty     = "party"
	fieldContact   = "partyContact"
	fieldCages     = "cages"
	fieldRate      = "rate"
	fieldAvgWeight = "avgWeight"
)

// tradeRules lists every accepted spelling of every trade input, current
// names first, then older form names, then the narrow-schema names.
func tradeRules(p models.TradeProfile) []coerce.Rule {
	return []coerce.Rule{
		{Name: fieldInvoice, Kind: coerce.Text, Aliases: []string{"invoiceNo", "invoice_number", "referenceNumber", "orderNumber", "order_number"}},
		{Name: fieldDate, Kind: coerce.Date, Aliases: []string{p.DateField, "entryDate", "orderDate", "order_date"}},
		{Name: fieldParty, Kind: coerce.Text, Aliases: []string{p.PartyField, "counterparty", "partyName", "party_name", p.LegacyPartyField}},
		{Name: fieldContact, Kind: coerce.Text, Aliases: []string{p.PartyContactField, "contact", "phone", "party_contact"}},
		{Name: "location", Kind: coerce.Text, Aliases: []string{"village", "place"}},
		{Name: "vehicleNumber", Kind: coerce.Text, Aliases: []string{"vehicleNo", "vehicle", "vehicle_number"}},
		{Name: "paymentType", Kind: coerce.Enum, Aliases: []string{"payment_type", "status"}, Default: models.PaymentPaid, Allowed: []string{models.PaymentPaid, models.PaymentCredit}},
		{Name: "notes", Kind: coerce.Text, Aliases: []string{"remarks"}},
		{Name: "birdType", Kind: coerce.Text, Aliases: []string{"bird_type", "description"}},
		{Name: fieldCages, Kind: coerce.Integer, Aliases: []string{"cageCount", "cageQuantity", "cage_quantity", "noOfCages"}},
		{Name: fieldRate, Kind: coerce.Number, Aliases: []string{"ratePerKg", "unitCost", "unit_cost"}},
		{Name: fieldAvgWeight, Kind: coerce.Number, Aliases: []string{"averageWeight", "avg_weight"}},
		{Name: "transportCharges", Kind: coerce.Number, Aliases: []string{"transportCharge", "transport_charges"}},
		{Name: "loadingCharges", Kind: coerce.Number, Aliases: []string{"loadingCharge", "loading_charges"}},
		{Name: "commission", Kind: coerce.Number},
		{Name: "otherCharges", Kind: coerce.Number, Aliases: []string{"other_charges"}},
		{Name: "deductions", Kind: coerce.Number, Aliases: []string{"deduction"}},
		{Name: "advancePaid", Kind: coerce.Number, Aliases: []string{"advance", "advance_paid"}},
		{Name: "totalPaymentMade", Kind: coerce.Number, Aliases: []string{"paymentMade", "total_payment_made"}},
		{Name: "paymentMode", Kind: coerce.Text, Aliases: []string{"payment_mode"}},
		{Name: "dueDate", Kind: coerce.Date, Aliases: []string{"due_date"}},
		{Name: "cageDetails", Kind: coerce.Payload, Aliases: []string{"cage_details"}},
	}
}

// missingTradeFields names the required inputs that are absent, or
// unreadable, under every spelling. Cages and rate must also be positive.
func missingTradeFields(values coerce.Values, p models.TradeProfile) []string {
	var missing []string
	if values.Time(fieldDate).IsZero() {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(values.String(fieldParty)) == "" {
		missing = append(missing, p.PartyField)
	}
	if values.Int(fieldCages) <= 0 {
		missing = append(missing, "cages")
	}
	if values.Float(fieldRate) <= 0 {
		missing = append(missing, "rate")
	}
	return missing
}

// cagesOutOfRange reports a cage count that is a number under some spelling
// but too large to store or to multiply into a bird count.
func cagesOutOfRange(raw map[string]any, rules []coerce.Rule, limit int) bool {
	for _, rule := range rules {
		if rule.Name != fieldCages {
			continue
		}
		for _, key := range append([]string{rule.Name}, rule.Aliases...) {
			if _, ok := coerce.ToFloat(raw[key]); !ok {
				continue
			}
			n, ok := coerce.ToInt(raw[key])
			return !ok || n > limit
		}
	}
	return false
}

// recordFromValues builds the base inputs of a record. Derived fields are left
// for Recompute.
func recordFromValues(v coerce.Values) *models.TradeRecord {
	return &models.TradeRecord{
		InvoiceNumber:    v.String(fieldInvoice),
		Date:             v.Time(fieldDate),
		PartyName:        v.String(fieldParty),
		PartyContact:     v.String(fieldContact),
		Location:         v.String("location"),
		VehicleNumber:    v.String("vehicleNumber"),
		PaymentType:      v.String("paymentType"),
		Notes:            v.String("notes"),
		BirdType:         v.String("birdType"),
		Cages:            v.Int(fieldCages),
		Rate:             v.Float(fieldRate),
		AvgWeight:        v.Float(fieldAvgWeight),
		TransportCharges: v.Float("transportCharges"),
		LoadingCharges:   v.Float("loadingCharges"),
		Commission:       v.Float("commission"),
		OtherCharges:     v.Float("otherCharges"),
		Deductions:       v.Float("deductions"),
		AdvancePaid:      v.Float("advancePaid"),
		TotalPaymentMade: v.Float("totalPaymentMade"),
		PaymentMode:      v.String("paymentMode"),
		DueDate:          v.Time("dueDate"),
		CageDetails:      v.Payload("cageDetails"),
	}
}

// mergeTrade overlays the request's base inputs on the stored row. Request
// values win wherever the request supplied one; identity and timestamps come
// from the store.
func mergeTrade(stored, req *models.TradeRecord) *models.TradeRecord {
	m := *stored
	m.InvoiceNumber = pickString(req.InvoiceNumber, stored.InvoiceNumber)
	if !req.Date.IsZero() {
		m.Date = req.Date
	}
	m.PartyName = pickString(req.PartyName, stored.PartyName)
	m.PartyContact = pickString(req.PartyContact, stored.PartyContact)
	m.Location = pickString(req.Location, stored.Location)
	m.VehicleNumber = pickString(req.VehicleNumber, stored.VehicleNumber)
	m.PaymentType = pickString(req.PaymentType, stored.PaymentType)
	m.Notes = pickString(req.Notes, stored.Notes)
	m.BirdType = pickString(req.BirdType, stored.BirdType)
	if req.Cages != 0 {
		m.Cages = req.Cages
	}
	m.Rate = pickFloat(req.Rate, stored.Rate)
	m.AvgWeight = pickFloat(req.AvgWeight, stored.AvgWeight)
	m.TransportCharges = pickFloat(req.TransportCharges, stored.TransportCharges)
	m.LoadingCharges = pickFloat(req.LoadingCharges, stored.LoadingCharges)
	m.Commission = pickFloat(req.Commission, stored.Commission)
	m.OtherCharges = pickFloat(req.OtherCharges, stored.OtherCharges)
	m.Deductions = pickFloat(req.Deductions, stored.Deductions)
	m.AdvancePaid = pickFloat(req.AdvancePaid, stored.AdvancePaid)
	m.TotalPaymentMade = pickFloat(req.TotalPaymentMade, stored.TotalPaymentMade)
	m.PaymentMode = pickString(req.PaymentMode, stored.PaymentMode)
	if !req.DueDate.IsZero() {
		m.DueDate = req.DueDate
	}
	if len(req.CageDetails) > 0 {
		m.CageDetails = req.CageDetails
	}
	return &m
}

func pickString(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

func pickFloat(preferred, fallback float64) float64 {
	if preferred != 0 {
		return preferred
	}
	return fallback
}
