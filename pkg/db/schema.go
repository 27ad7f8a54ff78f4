package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: tracks each segmentation batch with auto-incrementing ID
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    config_path TEXT,
    output_dir TEXT NOT NULL,
    file_count INTEGER NOT NULL,
    success_count INTEGER DEFAULT 0,
    failed_count INTEGER DEFAULT 0,
    flagged_count INTEGER DEFAULT 0,
    instrument_count INTEGER DEFAULT 0,
    article_count INTEGER DEFAULT 0,
    chunk_count INTEGER DEFAULT 0,
    duration_seconds REAL DEFAULT 0,

    -- Top keywords as JSON array: ["word1:count1", "word2:count2", ...]
    top_keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

-- Run files: per-transcript results within a run
CREATE TABLE IF NOT EXISTS run_files (
    file_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL,           -- success, failed
    error_type TEXT,
    error_message TEXT,
    journal_date TEXT,
    instruments INTEGER DEFAULT 0,
    articles INTEGER DEFAULT 0,
    chunks INTEGER DEFAULT 0,
    whole_text_chunks INTEGER DEFAULT 0,
    flagged BOOLEAN DEFAULT 0,
    language TEXT,
    language_confidence REAL,
    output_path TEXT,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, name)
);

CREATE INDEX IF NOT EXISTS idx_run_files_run ON run_files(run_id);
CREATE INDEX IF NOT EXISTS idx_run_files_status ON run_files(status);
CREATE INDEX IF NOT EXISTS idx_run_files_flagged ON run_files(flagged) WHERE flagged = 1;
`
