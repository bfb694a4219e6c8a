package service

import (
	"math"
	"time"
)

// CashFlow is one dated amount in a money-weighted return series. Outflows
// (money put in) are negative, inflows (money taken out, terminal value)
// positive.
type CashFlow struct {
	Date   time.Time
	Amount float64
}

// xirrNPV computes the net present value of the series at annual rate r,
// discounting each flow by its year-fraction distance from the first flow.
func xirrNPV(rate float64, flows []CashFlow) float64 {
	t0 := flows[0].Date
	npv := 0.0
	for _, cf := range flows {
		years := cf.Date.Sub(t0).Hours() / 24 / 365
		npv += cf.Amount / math.Pow(1+rate, years)
	}
	return npv
}

// computeXIRR solves for the annualised money-weighted rate of return using
// Newton-Raphson with a numeric derivative. Returns 0 when the series is too
// small to define a rate or when the iteration fails to converge.
func computeXIRR(flows []CashFlow) float64 {
	if len(flows) < 2 {
		return 0
	}

	const (
		maxIterations = 100
		tolerance     = 1e-9
		step          = 1e-6
	)

	rate := 0.1
	for i := 0; i < maxIterations; i++ {
		npv := xirrNPV(rate, flows)
		derivative := (xirrNPV(rate+step, flows) - npv) / step
		if derivative == 0 || math.IsNaN(derivative) || math.IsInf(derivative, 0) {
			return 0
		}

		next := rate - npv/derivative
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return 0
		}
		if math.Abs(next-rate) < tolerance {
			return next
		}
		rate = next
	}

	return rate
}
