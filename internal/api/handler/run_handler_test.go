package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-etl/internal/api"
	"order-etl/internal/api/handler"
	"order-etl/internal/model"
	"order-etl/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	// a file-backed database: with the sqlite3 driver every pooled
	// connection to :memory: would see its own empty database
	require.NoError(t, store.InitDB(filepath.Join(t.TempDir(), "test.db")))
	return api.NewRouter(handler.New(100, 1000))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// waitForRun polls the run status until it leaves the pending and running
// states.
func waitForRun(t *testing.T, router http.Handler, runID string) string {
	t.Helper()
	var status string
	require.Eventually(t, func() bool {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID, nil)
		if rec.Code != http.StatusOK {
			return false
		}
		var info model.RunInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		status = info.Status
		return status == model.RunStatusCompleted || status == model.RunStatusFailed
	}, 10*time.Second, 25*time.Millisecond)
	return status
}

func TestCreateRunValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"unknown source", map[string]interface{}{"source": "ftp"}},
		{"missing source", map[string]interface{}{}},
		{"csv without path", map[string]interface{}{"source": "csv"}},
		{"negative records", map[string]interface{}{"source": "sample", "records": -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/v1/runs", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody(t, rec), "error")
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRunSampleEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/runs", map[string]interface{}{
		"source":  "sample",
		"records": 50,
		"seed":    42,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	runID, ok := decodeBody(t, rec)["run_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, runID)

	require.Equal(t, model.RunStatusCompleted, waitForRun(t, router, runID))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report model.QualityReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 50, report.TotalRecords)
	assert.Equal(t, report.TotalRecords, report.CleanRecords+report.ErrorRecords)
	require.NotNil(t, report.Score)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID+"/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary model.InsightsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 50, summary.TotalOrders)
	assert.NotEmpty(t, summary.TopCategory)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID+"/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	logs := decodeBody(t, rec)
	assert.NotZero(t, logs["count"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID+"/records?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := decodeBody(t, rec)
	assert.Equal(t, float64(10), records["count"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []model.RunInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)
}

func TestRunCSVSource(t *testing.T) {
	router := newTestRouter(t)

	path := filepath.Join(t.TempDir(), "orders.csv")
	csv := "order_id,customer_id,customer_email,price,quantity,discount_percent,order_date\n" +
		"O1,C1,a@x.com,10,2,0,2024-01-10\n" +
		"O2,C2,broken-email,20,1,0,2024-01-11\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/runs", map[string]interface{}{
		"source": "csv",
		"path":   path,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	runID := decodeBody(t, rec)["run_id"].(string)

	require.Equal(t, model.RunStatusCompleted, waitForRun(t, router, runID))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID+"/report", nil)
	var report model.QualityReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2, report.TotalRecords)
	assert.Equal(t, 1, report.ErrorRecords)
	assert.Contains(t, report.Issues, "Invalid emails: 1")
}

func TestRunFailsOnMissingFile(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/runs", map[string]interface{}{
		"source": "csv",
		"path":   "no/such/file.csv",
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	runID := decodeBody(t, rec)["run_id"].(string)

	require.Equal(t, model.RunStatusFailed, waitForRun(t, router, runID))

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID, nil)
	var info model.RunInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Contains(t, info.Error, "cannot read source")
}

func TestGetRunNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/runs/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/runs/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRun(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/runs", map[string]interface{}{
		"source": "sample",
		"records": 10,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	runID := decodeBody(t, rec)["run_id"].(string)
	waitForRun(t, router, runID)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/runs/"+runID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+runID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
