package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dnawave/dnawave/pkg/protocol"
	_ "github.com/mattn/go-sqlite3"
)

// JobStore handles persistent storage of encode/decode job history
type JobStore struct {
	db      *sql.DB
	dbPath  string
	maxJobs int
}

// NewJobStore creates a new job store with SQLite backend
func NewJobStore(dbPath string, maxJobs int) (*JobStore, error) {
	store := &JobStore{
		dbPath:  dbPath,
		maxJobs: maxJobs,
	}

	if err := store.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize job store: %w", err)
	}

	return store, nil
}

// initialize sets up the database connection and creates tables
func (js *JobStore) initialize() error {
	if js.dbPath == "" {
		js.dbPath = "./dnawave.db"
	}

	if err := os.MkdirAll(filepath.Dir(js.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	connectionString := js.dbPath + "?_busy_timeout=10000&_journal_mode=WAL&_foreign_keys=on"

	db, err := sql.Open("sqlite3", connectionString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	js.db = db

	if err := js.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	if err := js.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Printf("Job store initialized: %s (max %d jobs)", js.dbPath, js.maxJobs)
	return nil
}

// createTables creates the database schema
func (js *JobStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		kind TEXT NOT NULL CHECK (kind IN ('encode', 'decode')),
		input TEXT NOT NULL,
		output_path TEXT NOT NULL DEFAULT '',
		sequence_length INTEGER NOT NULL DEFAULT 0,
		errors_corrected INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS job_stats (
		id INTEGER PRIMARY KEY,
		total_jobs INTEGER NOT NULL DEFAULT 0,
		total_encode INTEGER NOT NULL DEFAULT 0,
		total_decode INTEGER NOT NULL DEFAULT 0,
		last_cleanup DATETIME,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Initialize stats if empty
	INSERT OR IGNORE INTO job_stats (id, total_jobs, total_encode, total_decode)
	VALUES (1, 0, 0, 0);
	`

	_, err := js.db.Exec(schema)
	return err
}

// createIndexes creates database indexes for performance
func (js *JobStore) createIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_jobs_timestamp ON jobs(timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_jobs_kind ON jobs(kind)",
	}

	for _, indexSQL := range indexes {
		if _, err := js.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// StoreJob stores a completed job in the database and returns its ID
func (js *JobStore) StoreJob(job protocol.Job) (int64, error) {
	tx, err := js.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO jobs (
			timestamp, kind, input, output_path,
			sequence_length, errors_corrected, status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(query,
		job.Timestamp, job.Kind, job.Input, job.OutputPath,
		job.SequenceLength, job.ErrorsCorrected, job.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert job: %w", err)
	}

	jobID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get job ID: %w", err)
	}

	if err := js.updateStats(tx, job.Kind); err != nil {
		return 0, fmt.Errorf("failed to update stats: %w", err)
	}

	if err := js.cleanupOldJobs(tx); err != nil {
		log.Printf("Warning: failed to cleanup old jobs: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return jobID, nil
}

// updateStats updates job statistics
func (js *JobStore) updateStats(tx *sql.Tx, kind string) error {
	query := `
		UPDATE job_stats SET
			total_jobs = total_jobs + 1,
			total_encode = CASE WHEN ? = 'encode' THEN total_encode + 1 ELSE total_encode END,
			total_decode = CASE WHEN ? = 'decode' THEN total_decode + 1 ELSE total_decode END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`

	_, err := tx.Exec(query, kind, kind)
	return err
}

// CleanupOldJobs removes jobs beyond the maximum limit (exported for manual cleanup)
func (js *JobStore) CleanupOldJobs() error {
	tx, err := js.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := js.cleanupOldJobs(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// cleanupOldJobs removes jobs beyond the maximum limit
func (js *JobStore) cleanupOldJobs(tx *sql.Tx) error {
	if js.maxJobs <= 0 {
		return nil // No limit
	}

	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count)
	if err != nil {
		return err
	}

	if count <= js.maxJobs {
		return nil
	}

	deleteCount := count - js.maxJobs
	query := `
		DELETE FROM jobs
		WHERE id IN (
			SELECT id FROM jobs
			ORDER BY timestamp ASC
			LIMIT ?
		)
	`

	if _, err := tx.Exec(query, deleteCount); err != nil {
		return err
	}

	_, err = tx.Exec("UPDATE job_stats SET last_cleanup = CURRENT_TIMESTAMP WHERE id = 1")
	return err
}

// Close closes the database connection
func (js *JobStore) Close() error {
	if js.db != nil {
		return js.db.Close()
	}
	return nil
}
