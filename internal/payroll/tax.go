package payroll

import (
	"errors"
	"math"
)

// ErrNegativeAmount is returned when a salary component is below zero.
var ErrNegativeAmount = errors.New("salary amounts must not be negative")

const (
	pensionRate       = 0.08
	reliefFloor       = 200000.0
	reliefGrossRate   = 0.01
	reliefUpliftRate  = 0.20
	unboundedBandSize = 0
)

// Band is one bracket of the progressive schedule. A zero Width means the bracket is unbounded.
type Band struct {
	Width float64
	Rate  float64
}

// Schedule is the progressive income tax schedule applied in order.
var Schedule = []Band{
	{Width: 30000, Rate: 0.07},
	{Width: 30000, Rate: 0.11},
	{Width: 50000, Rate: 0.15},
	{Width: 50000, Rate: 0.19},
	{Width: 160000, Rate: 0.21},
	{Width: unboundedBandSize, Rate: 0.24},
}

// BandTax is the share of taxable income that fell into one bracket.
type BandTax struct {
	Rate    float64 `json:"rate"`
	Taxable float64 `json:"taxable"`
	Tax     float64 `json:"tax"`
}

// Breakdown is the full result of a tax computation.
type Breakdown struct {
	Gross           float64   `json:"gross"`
	Pension         float64   `json:"pension"`
	ReliefAllowance float64   `json:"relief_allowance"`
	TaxableIncome   float64   `json:"taxable_income"`
	Tax             float64   `json:"tax"`
	Bands           []BandTax `json:"bands"`
	Net             float64   `json:"net"`
}

// ComputeProgressiveTax applies the statutory relief, pension deduction and the progressive
// schedule to an annual salary.
func ComputeProgressiveTax(basicSalary, totalAllowances float64) (Breakdown, error) {
	if basicSalary < 0 || totalAllowances < 0 {
		return Breakdown{}, ErrNegativeAmount
	}

	gross := basicSalary + totalAllowances
	pension := pensionRate * basicSalary
	relief := math.Max(reliefFloor, reliefGrossRate*gross) + reliefUpliftRate*gross
	taxable := math.Max(0, gross-pension-relief)

	bands := make([]BandTax, 0, len(Schedule))
	remaining := taxable
	var tax float64
	for _, band := range Schedule {
		if remaining <= 0 {
			break
		}
		portion := remaining
		if band.Width != unboundedBandSize && portion > band.Width {
			portion = band.Width
		}
		bandTax := portion * band.Rate
		bands = append(bands, BandTax{Rate: band.Rate, Taxable: round2(portion), Tax: round2(bandTax)})
		tax += bandTax
		remaining -= portion
	}

	return Breakdown{
		Gross:           round2(gross),
		Pension:         round2(pension),
		ReliefAllowance: round2(relief),
		TaxableIncome:   round2(taxable),
		Tax:             round2(tax),
		Bands:           bands,
		Net:             round2(gross - pension - tax),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
