package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded pipeline run. Failed runs carry the stage that
// aborted them; completed runs carry the slug they produced and their
// image counts.
type Run struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug,omitempty"`
	Strategy        string    `json:"strategy"`
	Status          string    `json:"status"`
	Stage           string    `json:"stage,omitempty"`
	Error           string    `json:"error,omitempty"`
	ImagesRequested int       `json:"imagesRequested"`
	ImagesGenerated int       `json:"imagesGenerated"`
	StartedAt       time.Time `json:"startedAt"`
	CompletedAt     time.Time `json:"completedAt"`
}

// Run status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunLog is the SQLite-backed history of pipeline runs. It is an
// operational audit trail only: post content itself lives in the flat-file
// post store.
type RunLog struct {
	db *sql.DB
}

// NewRunLog opens (creating if needed) the run log database under dataDir.
func NewRunLog(dataDir string) (*RunLog, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "runs.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log database: %w", err)
	}

	log := &RunLog{db: db}
	if err := log.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize run log: %w", err)
	}

	return log, nil
}

func (l *RunLog) initialize() error {
	table := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		slug TEXT,
		strategy TEXT,
		status TEXT,
		stage TEXT,
		error TEXT,
		images_requested INTEGER,
		images_generated INTEGER,
		started_at DATETIME,
		completed_at DATETIME
	);`

	if _, err := l.db.Exec(table); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (l *RunLog) Close() error {
	return l.db.Close()
}

// Record inserts one run. A missing ID gets a fresh UUID.
func (l *RunLog) Record(run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	query := `
	INSERT INTO runs
	(id, slug, strategy, status, stage, error, images_requested, images_generated, started_at, completed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := l.db.Exec(query,
		run.ID,
		run.Slug,
		run.Strategy,
		run.Status,
		run.Stage,
		run.Error,
		run.ImagesRequested,
		run.ImagesGenerated,
		run.StartedAt,
		run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// Recent returns the most recent runs, newest first.
func (l *RunLog) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT id, slug, strategy, status, stage, error, images_requested, images_generated, started_at, completed_at
	FROM runs ORDER BY started_at DESC LIMIT ?`

	rows, err := l.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.Slug,
			&run.Strategy,
			&run.Status,
			&run.Stage,
			&run.Error,
			&run.ImagesRequested,
			&run.ImagesGenerated,
			&run.StartedAt,
			&run.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
