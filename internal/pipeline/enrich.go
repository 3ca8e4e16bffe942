package pipeline

import (
	"fmt"
	"time"

	"order-etl/internal/model"
)

// Customer segment thresholds on total spend within the current table.
// A total of exactly 1000 is Regular, not VIP; exactly 300 is Regular,
// not New.
const (
	vipSpendThreshold     = 1000
	regularSpendThreshold = 300
)

// enrichTable computes the derived fields for every row, valid and invalid
// alike. Segmentation is two-pass: aggregate spend per customer over the
// whole table, then broadcast the resulting segment to each of the
// customer's rows. Raw extracted fields are never mutated.
func enrichTable(rows []model.OrderRecord, now time.Time) {
	spend := make(map[string]float64)
	for i := range rows {
		if rows[i].TotalAmount != nil {
			spend[rows[i].CustomerID] += *rows[i].TotalAmount
		}
	}

	for i := range rows {
		r := &rows[i]

		r.PriceTier = priceTier(r.Price)
		r.CustomerSegment = segmentFor(spend[r.CustomerID])

		if r.TotalAmount != nil {
			revenue := *r.TotalAmount
			r.Revenue = &revenue
		}

		if r.OrderDate != nil {
			d := *r.OrderDate
			r.Month = d.Format("2006-01")
			r.Quarter = fmt.Sprintf("%04dQ%d", d.Year(), (int(d.Month())-1)/3+1)

			days := int(now.Sub(d).Hours() / 24)
			r.DaysSinceOrder = &days

			weekend := d.Weekday() == time.Saturday || d.Weekday() == time.Sunday
			r.IsWeekendOrder = &weekend
		}
	}
}

// priceTier classifies a price into a bracket independent of validity.
// Boundaries are inclusive on the left: 50 is Mid-range, 500 is Luxury.
// Null and negative prices have no tier.
func priceTier(price *float64) string {
	if price == nil {
		return ""
	}
	switch p := *price; {
	case p < 0:
		return ""
	case p < 50:
		return model.TierBudget
	case p < 200:
		return model.TierMidRange
	case p < 500:
		return model.TierPremium
	default:
		return model.TierLuxury
	}
}

func segmentFor(totalSpend float64) string {
	switch {
	case totalSpend > vipSpendThreshold:
		return model.SegmentVIP
	case totalSpend >= regularSpendThreshold:
		return model.SegmentRegular
	default:
		return model.SegmentNew
	}
}
