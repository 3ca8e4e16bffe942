package pipeline

import (
	"order-etl/internal/model"
	"order-etl/pkg/coerce"
)

// buildQualityReport aggregates per-row flags into the run's quality report.
// A row is clean iff it carries no flag, regardless of nulls in other
// derived fields. The score is left nil for an empty table instead of
// raising a division error.
func buildQualityReport(rows []model.OrderRecord, issues []string) *model.QualityReport {
	report := &model.QualityReport{
		TotalRecords: len(rows),
		Issues:       issues,
	}
	if report.Issues == nil {
		report.Issues = []string{}
	}

	for i := range rows {
		if rows[i].Clean() {
			report.CleanRecords++
		}
	}
	report.ErrorRecords = report.TotalRecords - report.CleanRecords

	if report.TotalRecords > 0 {
		score := coerce.Round2(100 * float64(report.CleanRecords) / float64(report.TotalRecords))
		report.Score = &score
	}
	return report
}
