// Package store is the run registry backing the API: run status, quality
// reports, insights summaries, processing logs and a bounded sample of
// processed records. The pipeline core itself never reads from here.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"order-etl/internal/model"
)

var db *sql.DB

// InitDB opens the sqlite database and creates the schema if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT,
			status TEXT,
			error TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS quality_reports (
			run_id TEXT PRIMARY KEY,
			report TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS insights (
			run_id TEXT PRIMARY KEY,
			summary TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			seq INTEGER,
			entry TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS run_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT,
			seq INTEGER,
			record TEXT
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// SaveRun registers a new pipeline run.
func SaveRun(runID, source string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO runs (id, source, status, error, created_at, updated_at) VALUES (?, ?, ?, '', ?, ?)`,
		runID, source, model.RunStatusPending, now, now)
	return err
}

// UpdateRunStatus moves a run to a new status.
func UpdateRunStatus(runID, status string) error {
	_, err := db.Exec(`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), runID)
	return err
}

// SaveRunError marks a run failed and records the cause.
func SaveRunError(runID string, runErr error) error {
	if runErr == nil {
		return nil
	}
	_, err := db.Exec(`UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		model.RunStatusFailed, runErr.Error(), time.Now().UTC(), runID)
	return err
}

// GetRun fetches one run's status row.
func GetRun(runID string) (*model.RunInfo, error) {
	var info model.RunInfo
	err := db.QueryRow(`SELECT id, source, status, error, created_at, updated_at FROM runs WHERE id = ?`, runID).
		Scan(&info.ID, &info.Source, &info.Status, &info.Error, &info.CreatedAt, &info.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ListRuns returns all runs, newest first.
func ListRuns() ([]model.RunInfo, error) {
	rows, err := db.Query(`SELECT id, source, status, error, created_at, updated_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]model.RunInfo, 0)
	for rows.Next() {
		var info model.RunInfo
		if err := rows.Scan(&info.ID, &info.Source, &info.Status, &info.Error, &info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}

// SaveReport stores the quality report for a run, replacing any prior one.
func SaveReport(runID string, report *model.QualityReport) error {
	blob, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT OR REPLACE INTO quality_reports (run_id, report, created_at) VALUES (?, ?, ?)`,
		runID, blob, time.Now().UTC())
	return err
}

// GetReport loads the quality report for a run.
func GetReport(runID string) (*model.QualityReport, error) {
	var blob []byte
	if err := db.QueryRow(`SELECT report FROM quality_reports WHERE run_id = ?`, runID).Scan(&blob); err != nil {
		return nil, err
	}
	var report model.QualityReport
	if err := json.Unmarshal(blob, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SaveInsights stores the insights summary for a run, replacing any prior one.
func SaveInsights(runID string, summary *model.InsightsSummary) error {
	blob, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT OR REPLACE INTO insights (run_id, summary, created_at) VALUES (?, ?, ?)`,
		runID, blob, time.Now().UTC())
	return err
}

// GetInsights loads the insights summary for a run.
func GetInsights(runID string) (*model.InsightsSummary, error) {
	var blob []byte
	if err := db.QueryRow(`SELECT summary FROM insights WHERE run_id = ?`, runID).Scan(&blob); err != nil {
		return nil, err
	}
	var summary model.InsightsSummary
	if err := json.Unmarshal(blob, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SaveLogs replaces the stored processing log for a run.
func SaveLogs(runID string, entries []string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_logs WHERE run_id = ?`, runID); err != nil {
		return err
	}
	for i, entry := range entries {
		if _, err := tx.Exec(`INSERT INTO run_logs (run_id, seq, entry) VALUES (?, ?, ?)`, runID, i, entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetLogs returns the processing log in append order.
func GetLogs(runID string) ([]string, error) {
	rows, err := db.Query(`SELECT entry FROM run_logs WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]string, 0)
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// SaveRecords stores up to limit processed rows as a display sample.
func SaveRecords(runID string, records []model.OrderRecord, limit int) error {
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_records WHERE run_id = ?`, runID); err != nil {
		return err
	}
	for i := range records {
		blob, err := json.Marshal(&records[i])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO run_records (run_id, seq, record) VALUES (?, ?, ?)`, runID, i, blob); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetRecords returns up to limit stored rows in table order.
func GetRecords(runID string, limit int) ([]model.OrderRecord, error) {
	rows, err := db.Query(`SELECT record FROM run_records WHERE run_id = ? ORDER BY seq LIMIT ?`, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]model.OrderRecord, 0)
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var rec model.OrderRecord
		if err := json.Unmarshal(blob, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteRun removes a run and all of its artifacts.
func DeleteRun(runID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM run_records WHERE run_id = ?`,
		`DELETE FROM run_logs WHERE run_id = ?`,
		`DELETE FROM insights WHERE run_id = ?`,
		`DELETE FROM quality_reports WHERE run_id = ?`,
		`DELETE FROM runs WHERE id = ?`,
	} {
		if _, err := tx.Exec(stmt, runID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
