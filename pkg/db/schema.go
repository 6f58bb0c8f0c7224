package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per extraction run
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    site TEXT NOT NULL,
    site_name TEXT NOT NULL,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    duration_ms INTEGER DEFAULT 0,
    item_count INTEGER DEFAULT 0,
    media_count INTEGER DEFAULT 0,
    endpoint_count INTEGER DEFAULT 0,
    skipped_endpoints INTEGER DEFAULT 0,
    success BOOLEAN NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_site ON runs(site);

-- Run endpoints: terminal outcome of each endpoint walked during a run
CREATE TABLE IF NOT EXISTS run_endpoints (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    content_type TEXT NOT NULL,
    state TEXT NOT NULL,
    pages INTEGER DEFAULT 0,
    items INTEGER DEFAULT 0,
    error_class TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, content_type)
);

CREATE INDEX IF NOT EXISTS idx_run_endpoints_run ON run_endpoints(run_id);
`
