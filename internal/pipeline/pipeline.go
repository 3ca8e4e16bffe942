// Package pipeline implements the order ETL core: extraction of raw tabular
// order records, validation and enrichment, quality scoring and insight
// aggregation. A Pipeline is one run context; phases run strictly in order
// and the caller serializes access.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"order-etl/internal/model"
)

var log = logging.MustGetLogger("pipeline")

// Pipeline holds the mutable state of a single ETL run: the raw table, the
// processed table, the quality report and the append-only processing log.
// A run is discarded and replaced wholesale on reset, never patched.
type Pipeline struct {
	ID string

	now func() time.Time

	raw       []model.RawRecord
	rawSource string
	extracted bool

	processed   []model.OrderRecord
	report      *model.QualityReport
	transformed bool

	logs []string
}

// New creates a fresh run context.
func New() *Pipeline {
	return &Pipeline{
		ID:  uuid.New().String(),
		now: time.Now,
	}
}

// logf appends a timestamped entry to the run's processing log.
func (p *Pipeline) logf(format string, args ...interface{}) {
	entry := fmt.Sprintf("[%s] %s", p.now().Format("15:04:05"), fmt.Sprintf(format, args...))
	p.logs = append(p.logs, entry)
}

// Logs returns a copy of the processing log in append order.
func (p *Pipeline) Logs() []string {
	out := make([]string, len(p.logs))
	copy(out, p.logs)
	return out
}

// RawTable returns the extracted table, nil before extraction.
func (p *Pipeline) RawTable() []model.RawRecord { return p.raw }

// Processed returns the transformed table, nil before transformation.
func (p *Pipeline) Processed() []model.OrderRecord { return p.processed }

// Report returns the quality report of the latest transform run.
func (p *Pipeline) Report() *model.QualityReport { return p.report }

// Source describes where the raw table came from.
func (p *Pipeline) Source() string { return p.rawSource }

// Transform validates, enriches and scores the raw table. The processed
// table and quality report from any earlier transform of this run are
// overwritten; the raw table itself is never mutated.
func (p *Pipeline) Transform() error {
	if !p.extracted {
		return &PipelineStateError{Phase: "transform", Requires: "extract"}
	}

	p.logf("🔧 Starting data transformation...")
	log.Infof("run %s: transforming %d records", p.ID, len(p.raw))

	rows, issues := validateTable(p.raw)
	enrichTable(rows, p.now())
	report := buildQualityReport(rows, issues)

	if report.TotalRecords == 0 {
		emptyErr := &EmptyTableError{Phase: "transform"}
		p.logf("⚠️ %s: quality score is undefined", emptyErr.Error())
		log.Warningf("run %s: %v", p.ID, emptyErr)
	}

	p.processed = rows
	p.report = report
	p.transformed = true

	p.logf("✅ Transformation complete: %d/%d clean records", report.CleanRecords, report.TotalRecords)
	return nil
}

// LoadAndAnalyze computes the insights summary from the processed table
// without mutating it.
func (p *Pipeline) LoadAndAnalyze() (*model.InsightsSummary, error) {
	if !p.transformed {
		return nil, &PipelineStateError{Phase: "load/analyze", Requires: "transform"}
	}

	p.logf("📊 Generating analytical insights...")
	log.Infof("run %s: analyzing %d records", p.ID, len(p.processed))

	insights := buildInsights(p.processed)

	p.logf("✅ Analysis complete - insights generated")
	return insights, nil
}
