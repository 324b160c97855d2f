// Package calc computes the derived money and weight fields of a trade record.
package calc

import "math"

// DefaultBirdsPerCage is the cage conversion used when no setting overrides it.
const DefaultBirdsPerCage = 16

// Input holds the base fields the derived values depend on.
type Input struct {
	Cages            int
	AvgWeight        float64
	Rate             float64
	TransportCharges float64
	LoadingCharges   float64
	Commission       float64
	OtherCharges     float64
	Deductions       float64
	AdvancePaid      float64
	TotalPaymentMade float64
}

// Derived holds the computed fields. They are never accepted from a client.
type Derived struct {
	BirdCount          int     `json:"birdCount"`
	TotalWeight        float64 `json:"totalWeight"`
	TotalAmount        float64 `json:"totalAmount"`
	TotalInvoice       float64 `json:"totalInvoice"`
	OutstandingPayment float64 `json:"outstandingPayment"`
	BalanceAmount      float64 `json:"balanceAmount"`
}

// Policy carries the per-entity knobs of the computation.
type Policy struct {
	BirdsPerCage int
	// Clamp floors outstanding and balance at zero.
	Clamp bool
}

// MaxBirdCount is the largest bird count the store can hold.
const MaxBirdCount = math.MaxInt32

// MaxCages is the largest cage count whose bird count stays within
// MaxBirdCount. Beyond it Compute reports zero birds.
func MaxCages(birdsPerCage int) int {
	if birdsPerCage <= 0 {
		birdsPerCage = DefaultBirdsPerCage
	}
	return MaxBirdCount / birdsPerCage
}

// Compute evaluates the derived fields in their fixed order. Every step reads
// only base inputs or earlier steps, and a non-finite intermediate is treated
// as zero before it is used. No rounding is applied.
func Compute(in Input, p Policy) Derived {
	perCage := p.BirdsPerCage
	if perCage <= 0 {
		perCage = DefaultBirdsPerCage
	}

	var d Derived
	if limit := MaxCages(perCage); in.Cages <= limit && in.Cages >= -limit {
		d.BirdCount = in.Cages * perCage
	}
	d.TotalWeight = finite(float64(d.BirdCount) * finite(in.AvgWeight))
	d.TotalAmount = finite(d.TotalWeight * finite(in.Rate))
	d.TotalInvoice = finite(d.TotalAmount +
		finite(in.TransportCharges) +
		finite(in.LoadingCharges) +
		finite(in.Commission) +
		finite(in.OtherCharges) -
		finite(in.Deductions))

	outstanding := finite(d.TotalInvoice - finite(in.AdvancePaid))
	balance := finite(d.TotalInvoice - finite(in.AdvancePaid) - finite(in.TotalPaymentMade))
	if p.Clamp {
		outstanding = math.Max(0, outstanding)
		balance = math.Max(0, balance)
	}
	d.OutstandingPayment = outstanding
	d.BalanceAmount = balance

	return d
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
