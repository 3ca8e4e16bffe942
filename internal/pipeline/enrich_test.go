package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-etl/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func datePtr(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestPriceTier(t *testing.T) {
	tests := []struct {
		name  string
		price *float64
		want  string
	}{
		{"null price", nil, ""},
		{"negative price", floatPtr(-10), ""},
		{"zero is budget", floatPtr(0), model.TierBudget},
		{"just under fifty", floatPtr(49.99), model.TierBudget},
		{"fifty is mid-range", floatPtr(50), model.TierMidRange},
		{"two hundred is premium", floatPtr(200), model.TierPremium},
		{"five hundred is luxury", floatPtr(500), model.TierLuxury},
		{"high price", floatPtr(1999.99), model.TierLuxury},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, priceTier(tt.price))
		})
	}
}

func TestSegmentFor(t *testing.T) {
	assert.Equal(t, model.SegmentNew, segmentFor(0))
	assert.Equal(t, model.SegmentNew, segmentFor(299.99))
	assert.Equal(t, model.SegmentRegular, segmentFor(300))
	assert.Equal(t, model.SegmentRegular, segmentFor(1000))
	assert.Equal(t, model.SegmentVIP, segmentFor(1000.01))
}

func TestEnrichDateFields(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	rows := []model.OrderRecord{
		{OrderDate: datePtr("2024-03-16")}, // a Saturday
		{OrderDate: datePtr("2023-11-02")}, // a Thursday
		{},                                 // null date
	}
	enrichTable(rows, now)

	require.NotNil(t, rows[0].DaysSinceOrder)
	assert.Equal(t, 4, *rows[0].DaysSinceOrder)
	assert.Equal(t, "2024-03", rows[0].Month)
	assert.Equal(t, "2024Q1", rows[0].Quarter)
	require.NotNil(t, rows[0].IsWeekendOrder)
	assert.True(t, *rows[0].IsWeekendOrder)

	assert.Equal(t, "2023-11", rows[1].Month)
	assert.Equal(t, "2023Q4", rows[1].Quarter)
	require.NotNil(t, rows[1].IsWeekendOrder)
	assert.False(t, *rows[1].IsWeekendOrder)

	assert.Empty(t, rows[2].Month)
	assert.Empty(t, rows[2].Quarter)
	assert.Nil(t, rows[2].DaysSinceOrder)
	assert.Nil(t, rows[2].IsWeekendOrder)
}

func TestEnrichSegmentBroadcast(t *testing.T) {
	rows := []model.OrderRecord{
		{CustomerID: "CUST-1", TotalAmount: floatPtr(700)},
		{CustomerID: "CUST-1", TotalAmount: floatPtr(600)},
		{CustomerID: "CUST-2", TotalAmount: floatPtr(50)},
		{CustomerID: "CUST-1", TotalAmount: nil}, // nulls do not count toward spend
	}
	enrichTable(rows, time.Now())

	// every row of the same customer carries the same segment
	assert.Equal(t, model.SegmentVIP, rows[0].CustomerSegment)
	assert.Equal(t, model.SegmentVIP, rows[1].CustomerSegment)
	assert.Equal(t, model.SegmentVIP, rows[3].CustomerSegment)
	assert.Equal(t, model.SegmentNew, rows[2].CustomerSegment)
}

func TestEnrichRevenueCopiesTotal(t *testing.T) {
	rows := []model.OrderRecord{
		{CustomerID: "CUST-1", TotalAmount: floatPtr(27)},
		{CustomerID: "CUST-2"},
	}
	enrichTable(rows, time.Now())

	require.NotNil(t, rows[0].Revenue)
	assert.Equal(t, 27.0, *rows[0].Revenue)
	assert.Nil(t, rows[1].Revenue)

	// Revenue is a copy, not an alias of TotalAmount
	*rows[0].Revenue = 99
	assert.Equal(t, 27.0, *rows[0].TotalAmount)
}

func TestEnrichFlaggedRowsStillEnriched(t *testing.T) {
	rows := []model.OrderRecord{
		{
			CustomerID:  "CUST-1",
			QualityFlag: model.FlagInvalidEmail,
			Price:       floatPtr(120),
			TotalAmount: floatPtr(400),
			OrderDate:   datePtr("2024-01-10"),
		},
	}
	enrichTable(rows, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, model.TierMidRange, rows[0].PriceTier)
	assert.Equal(t, model.SegmentRegular, rows[0].CustomerSegment)
	assert.Equal(t, "2024-01", rows[0].Month)
}
