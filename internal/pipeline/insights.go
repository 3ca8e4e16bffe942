package pipeline

import (
	"sort"

	"order-etl/internal/model"
	"order-etl/pkg/coerce"
)

// groupedSums accumulates revenue per group key while remembering the order
// in which keys were first encountered, so ties on the maximum resolve to
// the earliest group.
type groupedSums struct {
	keys []string
	sums map[string]float64
}

func newGroupedSums() *groupedSums {
	return &groupedSums{sums: make(map[string]float64)}
}

func (g *groupedSums) add(key string, v float64) {
	if _, ok := g.sums[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.sums[key] += v
}

// max returns the first-encountered key with the largest sum.
func (g *groupedSums) max() string {
	if len(g.keys) == 0 {
		return ""
	}
	best := g.keys[0]
	for _, k := range g.keys[1:] {
		if g.sums[k] > g.sums[best] {
			best = k
		}
	}
	return best
}

// buildInsights computes the headline metrics from the enriched table. Rows
// with null revenue are excluded from every monetary aggregate; an empty
// table yields a zero-valued summary rather than a crash.
func buildInsights(rows []model.OrderRecord) *model.InsightsSummary {
	summary := &model.InsightsSummary{TotalOrders: len(rows)}

	customers := make(map[string]struct{})
	byCategory := newGroupedSums()
	byRegion := newGroupedSums()
	byMonth := newGroupedSums()
	revenueCount := 0

	for i := range rows {
		r := &rows[i]
		customers[r.CustomerID] = struct{}{}

		if r.Revenue == nil {
			continue
		}
		summary.TotalRevenue += *r.Revenue
		revenueCount++

		byCategory.add(r.Category, *r.Revenue)
		byRegion.add(r.Region, *r.Revenue)
		if r.Month != "" {
			byMonth.add(r.Month, *r.Revenue)
		}
	}

	summary.UniqueCustomers = len(customers)
	summary.TotalRevenue = coerce.Round2(summary.TotalRevenue)
	if revenueCount > 0 {
		summary.AvgOrderValue = coerce.Round2(summary.TotalRevenue / float64(revenueCount))
	}
	summary.TopCategory = byCategory.max()
	summary.BestRegion = byRegion.max()
	summary.MonthlyGrowth = monthlyGrowth(byMonth)

	return summary
}

// monthlyGrowth compares the revenue of the two most recent months. Fewer
// than two distinct months yields 0 by policy, as does a zero previous
// month. The "2006-01" keys sort chronologically as plain strings.
func monthlyGrowth(byMonth *groupedSums) float64 {
	if len(byMonth.keys) < 2 {
		return 0
	}
	months := make([]string, len(byMonth.keys))
	copy(months, byMonth.keys)
	sort.Strings(months)

	previous := byMonth.sums[months[len(months)-2]]
	current := byMonth.sums[months[len(months)-1]]
	if previous == 0 {
		return 0
	}
	return coerce.Round2((current - previous) / previous * 100)
}
