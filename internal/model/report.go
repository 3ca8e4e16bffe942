package model

import "time"

// QualityReport summarizes row-level validation for one transform run.
type QualityReport struct {
	TotalRecords int      `json:"total_records"`
	CleanRecords int      `json:"clean_records"`
	ErrorRecords int      `json:"error_records"`
	Score        *float64 `json:"data_quality_score"` // nil when the table is empty
	Issues       []string `json:"quality_issues"`
}

// InsightsSummary holds the headline metrics produced by the analyze phase.
type InsightsSummary struct {
	TotalRevenue    float64 `json:"total_revenue"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	TotalOrders     int     `json:"total_orders"`
	UniqueCustomers int     `json:"unique_customers"`
	TopCategory     string  `json:"top_category"`
	BestRegion      string  `json:"best_region"`
	MonthlyGrowth   float64 `json:"monthly_growth"`
}

// Run statuses as stored in the run registry
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunInfo describes one pipeline execution tracked by the store.
type RunInfo struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"` // file path or "sample:<n>"
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
