package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Run represents one segmentation batch
type Run struct {
	RunID           int64
	CreatedAt       time.Time
	ConfigPath      string
	OutputDir       string
	FileCount       int
	SuccessCount    int
	FailedCount     int
	FlaggedCount    int
	InstrumentCount int
	ArticleCount    int
	ChunkCount      int
	DurationSeconds float64
	TopKeywords     []string
}

// RunFile represents one transcript's outcome within a run
type RunFile struct {
	FileID             int64
	RunID              int64
	Name               string
	Status             string
	ErrorType          string
	ErrorMessage       string
	JournalDate        string
	Instruments        int
	Articles           int
	Chunks             int
	WholeTextChunks    int
	Flagged            bool
	Language           string
	LanguageConfidence float64
	OutputPath         string
}

// CreateRun inserts a new run row and returns its ID
func (db *DB) CreateRun(configPath, outputDir string, fileCount int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (config_path, output_dir, file_count)
		VALUES (?, ?, ?)
	`, configPath, outputDir, fileCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	return runID, nil
}

// RecordFile inserts (or replaces) one transcript's result for a run
func (db *DB) RecordFile(rf *RunFile) error {
	_, err := db.Exec(`
		INSERT OR REPLACE INTO run_files
			(run_id, name, status, error_type, error_message, journal_date,
			 instruments, articles, chunks, whole_text_chunks, flagged,
			 language, language_confidence, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rf.RunID, rf.Name, rf.Status, rf.ErrorType, rf.ErrorMessage, rf.JournalDate,
		rf.Instruments, rf.Articles, rf.Chunks, rf.WholeTextChunks, rf.Flagged,
		rf.Language, rf.LanguageConfidence, rf.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to record file %s: %w", rf.Name, err)
	}
	return nil
}

// FinishRun writes the aggregate counters once all workers have drained
func (db *DB) FinishRun(runID int64, successCount, failedCount, flaggedCount, instrumentCount, articleCount, chunkCount int, duration time.Duration, topKeywords []string) error {
	keywordsJSON, err := json.Marshal(topKeywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}

	_, err = db.Exec(`
		UPDATE runs
		SET success_count = ?, failed_count = ?, flagged_count = ?,
		    instrument_count = ?, article_count = ?, chunk_count = ?,
		    duration_seconds = ?, top_keywords = ?
		WHERE run_id = ?
	`, successCount, failedCount, flaggedCount,
		instrumentCount, articleCount, chunkCount,
		duration.Seconds(), string(keywordsJSON), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", runID, err)
	}
	return nil
}

// GetRunByID retrieves one run
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	run := &Run{}
	var keywordsJSON sql.NullString
	var configPath sql.NullString

	err := db.QueryRow(`
		SELECT run_id, created_at, config_path, output_dir,
		       file_count, success_count, failed_count, flagged_count,
		       instrument_count, article_count, chunk_count,
		       duration_seconds, top_keywords
		FROM runs WHERE run_id = ?
	`, runID).Scan(
		&run.RunID, &run.CreatedAt, &configPath, &run.OutputDir,
		&run.FileCount, &run.SuccessCount, &run.FailedCount, &run.FlaggedCount,
		&run.InstrumentCount, &run.ArticleCount, &run.ChunkCount,
		&run.DurationSeconds, &keywordsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", runID, err)
	}

	run.ConfigPath = configPath.String
	if keywordsJSON.Valid && keywordsJSON.String != "" {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &run.TopKeywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords for run %d: %w", runID, err)
		}
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT run_id, created_at, config_path, output_dir,
		       file_count, success_count, failed_count, flagged_count,
		       instrument_count, article_count, chunk_count,
		       duration_seconds, top_keywords
		FROM runs
		ORDER BY created_at DESC, run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var keywordsJSON sql.NullString
		var configPath sql.NullString
		if err := rows.Scan(
			&run.RunID, &run.CreatedAt, &configPath, &run.OutputDir,
			&run.FileCount, &run.SuccessCount, &run.FailedCount, &run.FlaggedCount,
			&run.InstrumentCount, &run.ArticleCount, &run.ChunkCount,
			&run.DurationSeconds, &keywordsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.ConfigPath = configPath.String
		if keywordsJSON.Valid && keywordsJSON.String != "" {
			if err := json.Unmarshal([]byte(keywordsJSON.String), &run.TopKeywords); err != nil {
				return nil, fmt.Errorf("failed to unmarshal keywords for run %d: %w", run.RunID, err)
			}
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRunFiles returns the per-transcript rows for a run, in name order
func (db *DB) GetRunFiles(runID int64) ([]*RunFile, error) {
	rows, err := db.Query(`
		SELECT file_id, run_id, name, status,
		       COALESCE(error_type, ''), COALESCE(error_message, ''),
		       COALESCE(journal_date, ''),
		       instruments, articles, chunks, whole_text_chunks, flagged,
		       COALESCE(language, ''), COALESCE(language_confidence, 0),
		       COALESCE(output_path, '')
		FROM run_files
		WHERE run_id = ?
		ORDER BY name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get files for run %d: %w", runID, err)
	}
	defer rows.Close()

	var files []*RunFile
	for rows.Next() {
		rf := &RunFile{}
		if err := rows.Scan(
			&rf.FileID, &rf.RunID, &rf.Name, &rf.Status,
			&rf.ErrorType, &rf.ErrorMessage, &rf.JournalDate,
			&rf.Instruments, &rf.Articles, &rf.Chunks, &rf.WholeTextChunks, &rf.Flagged,
			&rf.Language, &rf.LanguageConfidence, &rf.OutputPath); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		files = append(files, rf)
	}

	return files, rows.Err()
}
