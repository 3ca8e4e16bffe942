package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/op/go-logging"

	"order-etl/internal/model"
	"order-etl/internal/pipeline"
	"order-etl/internal/store"
)

var log = logging.MustGetLogger("api")

// RunRequest is the payload for creating a pipeline run.
type RunRequest struct {
	Source  string `json:"source" validate:"required,oneof=sample csv"`
	Path    string `json:"path" validate:"required_if=Source csv"`
	Records int    `json:"records" validate:"omitempty,gt=0"`
	Seed    int64  `json:"seed"`
}

// Handler serves the pipeline run API.
type Handler struct {
	validate    *validator.Validate
	sampleSize  int
	recordLimit int
}

// New creates a Handler. sampleSize is the generated row count for runs
// that do not specify one; recordLimit bounds the processed-record sample
// persisted per run.
func New(sampleSize, recordLimit int) *Handler {
	return &Handler{
		validate:    validator.New(),
		sampleSize:  sampleSize,
		recordLimit: recordLimit,
	}
}

// CreateRun starts a new pipeline run
// @Summary Create a pipeline run
// @Description Run the full extract, transform and analyze pipeline over a CSV file or generated sample data
// @Tags runs
// @Accept json
// @Produce json
// @Param run body RunRequest true "Run configuration"
// @Success 202 {object} map[string]interface{} "Run accepted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		badRequest(w, r, "invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		badRequest(w, r, err.Error())
		return
	}

	opts := pipeline.ExtractOptions{Seed: req.Seed}
	source := "sample"
	if req.Source == "csv" {
		opts.Path = req.Path
		source = req.Path
	} else {
		opts.SampleSize = req.Records
		if opts.SampleSize == 0 {
			opts.SampleSize = h.sampleSize
		}
	}

	p := pipeline.New()
	if err := store.SaveRun(p.ID, source); err != nil {
		log.Errorf("failed to save run %s: %v", p.ID, err)
		internalError(w, r, "failed to save run")
		return
	}

	go h.execute(p, opts)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]interface{}{
		"run_id": p.ID,
		"status": model.RunStatusPending,
	})
}

// execute drives the three phases in order and persists every output the
// display layer consumes.
func (h *Handler) execute(p *pipeline.Pipeline, opts pipeline.ExtractOptions) {
	store.UpdateRunStatus(p.ID, model.RunStatusRunning)

	fail := func(err error) {
		log.Errorf("run %s failed: %v", p.ID, err)
		store.SaveRunError(p.ID, err)
		store.SaveLogs(p.ID, p.Logs())
	}

	if err := p.Extract(opts); err != nil {
		fail(err)
		return
	}
	if err := p.Transform(); err != nil {
		fail(err)
		return
	}
	insights, err := p.LoadAndAnalyze()
	if err != nil {
		fail(err)
		return
	}

	if err := store.SaveReport(p.ID, p.Report()); err != nil {
		fail(err)
		return
	}
	if err := store.SaveInsights(p.ID, insights); err != nil {
		fail(err)
		return
	}
	if err := store.SaveRecords(p.ID, p.Processed(), h.recordLimit); err != nil {
		fail(err)
		return
	}
	if err := store.SaveLogs(p.ID, p.Logs()); err != nil {
		fail(err)
		return
	}

	store.UpdateRunStatus(p.ID, model.RunStatusCompleted)
	log.Infof("run %s completed", p.ID)
}

// ListRuns lists all pipeline runs
// @Summary List runs
// @Tags runs
// @Produce json
// @Success 200 {array} model.RunInfo "Runs, newest first"
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		internalError(w, r, "failed to list runs")
		return
	}
	render.JSON(w, r, runs)
}

// GetRun returns one run's status
// @Summary Get run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunInfo
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	info, err := store.GetRun(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, "run not found")
		return
	}
	render.JSON(w, r, info)
}

// GetReport returns the data quality report of a run
// @Summary Get quality report
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.QualityReport
// @Failure 404 {object} map[string]interface{} "Report not found"
// @Router /runs/{id}/report [get]
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := store.GetReport(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, "report not found")
		return
	}
	render.JSON(w, r, report)
}

// GetInsights returns the insights summary of a run
// @Summary Get insights summary
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.InsightsSummary
// @Failure 404 {object} map[string]interface{} "Insights not found"
// @Router /runs/{id}/insights [get]
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	summary, err := store.GetInsights(chi.URLParam(r, "id"))
	if err != nil {
		notFound(w, r, "insights not found")
		return
	}
	render.JSON(w, r, summary)
}

// GetLogs returns the processing log of a run
// @Summary Get processing log
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Log entries in append order"
// @Router /runs/{id}/logs [get]
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	entries, err := store.GetLogs(runID)
	if err != nil {
		internalError(w, r, "failed to load logs")
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"run_id": runID,
		"logs":   entries,
		"count":  len(entries),
	})
}

// GetRecords returns a sample of processed records
// @Summary Get processed records
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Param limit query int false "Maximum rows returned" default(100)
// @Success 200 {object} map[string]interface{} "Processed rows in table order"
// @Router /runs/{id}/records [get]
func (h *Handler) GetRecords(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")

	limit := 100
	if s := r.URL.Query().Get("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := store.GetRecords(runID, limit)
	if err != nil {
		internalError(w, r, "failed to load records")
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"run_id":  runID,
		"records": records,
		"count":   len(records),
		"limit":   limit,
	})
}

// DeleteRun removes a run and its artifacts
// @Summary Delete run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run deleted"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [delete]
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if _, err := store.GetRun(runID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			notFound(w, r, "run not found")
			return
		}
		internalError(w, r, "failed to load run")
		return
	}
	if err := store.DeleteRun(runID); err != nil {
		internalError(w, r, "failed to delete run")
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"message": "run deleted",
		"run_id":  runID,
	})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]interface{}{"error": msg})
}

func notFound(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, map[string]interface{}{"error": msg})
}

func internalError(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]interface{}{"error": msg})
}
