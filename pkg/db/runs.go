package db

import (
	"fmt"
	"time"
)

// Run is one recorded extraction run.
type Run struct {
	ID               int64
	Site             string
	SiteName         string
	StartedAt        time.Time
	Duration         time.Duration
	ItemCount        int
	MediaCount       int
	EndpointCount    int
	SkippedEndpoints int
	Success          bool
}

// EndpointOutcome is the terminal state of one endpoint within a run.
type EndpointOutcome struct {
	RunID      int64
	Type       string
	State      string
	Pages      int
	Items      int
	ErrorClass string
}

// StartRun inserts a new run row and returns its id.
func (db *DB) StartRun(site, siteName string) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (site, site_name) VALUES (?, ?)
	`, site, siteName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	return runID, nil
}

// UpdateRunSiteName fills in the sanitized site name once discovery has
// resolved it.
func (db *DB) UpdateRunSiteName(runID int64, siteName string) error {
	_, err := db.Exec(`UPDATE runs SET site_name = ? WHERE run_id = ?`, siteName, runID)
	if err != nil {
		return fmt.Errorf("failed to update run site name: %w", err)
	}
	return nil
}

// FinishRun records the final counters for a run.
func (db *DB) FinishRun(runID int64, duration time.Duration, itemCount, mediaCount, endpointCount, skipped int, success bool) error {
	_, err := db.Exec(`
		UPDATE runs
		SET duration_ms = ?, item_count = ?, media_count = ?,
		    endpoint_count = ?, skipped_endpoints = ?, success = ?
		WHERE run_id = ?
	`, duration.Milliseconds(), itemCount, mediaCount, endpointCount, skipped, success, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordEndpoint upserts the terminal outcome of one endpoint walk.
func (db *DB) RecordEndpoint(o EndpointOutcome) error {
	_, err := db.Exec(`
		INSERT INTO run_endpoints (run_id, content_type, state, pages, items, error_class)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, content_type) DO UPDATE
		SET state = excluded.state, pages = excluded.pages,
		    items = excluded.items, error_class = excluded.error_class
	`, o.RunID, o.Type, o.State, o.Pages, o.Items, nullable(o.ErrorClass))
	if err != nil {
		return fmt.Errorf("failed to record endpoint outcome: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := db.Query(`
		SELECT run_id, site, site_name, started_at, duration_ms,
		       item_count, media_count, endpoint_count, skipped_endpoints, success
		FROM runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		if err := rows.Scan(&r.ID, &r.Site, &r.SiteName, &r.StartedAt, &durationMS,
			&r.ItemCount, &r.MediaCount, &r.EndpointCount, &r.SkippedEndpoints, &r.Success); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunEndpoints returns the endpoint outcomes of one run in type order.
func (db *DB) RunEndpoints(runID int64) ([]EndpointOutcome, error) {
	rows, err := db.Query(`
		SELECT run_id, content_type, state, pages, items, COALESCE(error_class, '')
		FROM run_endpoints
		WHERE run_id = ?
		ORDER BY content_type
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query endpoint outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []EndpointOutcome
	for rows.Next() {
		var o EndpointOutcome
		if err := rows.Scan(&o.RunID, &o.Type, &o.State, &o.Pages, &o.Items, &o.ErrorClass); err != nil {
			return nil, fmt.Errorf("failed to scan endpoint outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
