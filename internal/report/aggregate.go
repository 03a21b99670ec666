// Package report computes income and brand-mix reports over a time window
// and the landing-page counters.
package report

import (
	"strings"
	"time"

	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Interval is an open time window: both bounds are excluded
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsEmpty reports whether the interval is unset or selects nothing
func (iv Interval) IsEmpty() bool {
	return iv.Start.IsZero() || iv.End.IsZero() || !iv.End.After(iv.Start)
}

// Contains reports whether Start < t < End
func (iv Interval) Contains(t time.Time) bool {
	return t.After(iv.Start) && t.Before(iv.End)
}

// Empty is the report for an empty interval
func Empty(iv Interval, source domain.ReportSource) *domain.Report {
	return &domain.Report{
		Start:       iv.Start,
		End:         iv.End,
		Source:      source,
		TotalIncome: decimal.Zero,
		CarBrands:   []domain.CarBrandShare{},
	}
}

// Aggregate sums cost and counts brands over customers whose timestamp lies
// strictly inside iv. Brands are listed in order of first appearance and
// percentages are rounded to two decimals.
func Aggregate(customers []domain.Customer, iv Interval) *domain.Report {
	r := Empty(iv, domain.ReportSourceLocal)
	if iv.IsEmpty() {
		return r
	}

	index := make(map[string]int)
	for i := range customers {
		c := &customers[i]
		if !iv.Contains(c.Timestamp) {
			continue
		}
		r.TotalCars++
		r.TotalIncome = r.TotalIncome.Add(c.Cost)

		brand := strings.TrimSpace(c.Brand)
		pos, ok := index[brand]
		if !ok {
			pos = len(r.CarBrands)
			index[brand] = pos
			r.CarBrands = append(r.CarBrands, domain.CarBrandShare{Name: brand})
		}
		r.CarBrands[pos].Count++
	}

	if r.TotalCars == 0 {
		return r
	}
	total := decimal.NewFromInt(int64(r.TotalCars))
	for i := range r.CarBrands {
		share := decimal.NewFromInt(int64(r.CarBrands[i].Count)).Mul(hundred).Div(total).Round(2)
		r.CarBrands[i].Percentage = share.InexactFloat64()
	}
	return r
}

// Capacity holds the workshop figures the summary compares against
type Capacity struct {
	FixingCars int
	// Mechanics is used when no mechanics are loaded
	Mechanics int
}

// Summarize builds the landing-page counters
func Summarize(customers []domain.Customer, mechanics []domain.Mechanic, capacity Capacity, now time.Time) domain.DashboardSummary {
	s := domain.DashboardSummary{
		Date:           now,
		TotalCars:      len(customers),
		TotalIncome:    decimal.Zero,
		FixingCapacity: capacity.FixingCars,
	}
	for i := range customers {
		s.TotalIncome = s.TotalIncome.Add(customers[i].Cost)
		if !customers[i].Checked {
			s.FixingCars++
		}
	}
	s.Overloaded = s.FixingCapacity > 0 && s.FixingCars > s.FixingCapacity

	s.MechanicCapacity = len(mechanics)
	if s.MechanicCapacity == 0 {
		s.MechanicCapacity = capacity.Mechanics
	}
	s.AvailableMechanics = s.MechanicCapacity - s.FixingCars
	if s.AvailableMechanics < 0 {
		s.AvailableMechanics = 0
	}
	return s
}
