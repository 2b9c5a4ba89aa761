package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kj-9/video-ocr/internal/domain/port"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	mode        TEXT NOT NULL,
	workers     INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT
);

CREATE TABLE IF NOT EXISTS run_items (
	run_id      TEXT NOT NULL REFERENCES runs(run_id),
	video_id    TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT,
	duration_ms INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_items_run_id ON run_items(run_id);
`

// Ledger records batch runs in a local sqlite database.
type Ledger struct {
	db *sql.DB
}

var _ port.RunLedger = (*Ledger)(nil)

// Open creates or opens the ledger database at path and applies the
// schema.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) StartRun(ctx context.Context, mode string, workers int) (string, error) {
	runID := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, mode, workers, started_at) VALUES (?, ?, ?, ?)`,
		runID, mode, workers, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("record run start: %w", err)
	}
	return runID, nil
}

func (l *Ledger) RecordItem(ctx context.Context, runID, videoID, status, errMsg string, duration time.Duration) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO run_items (run_id, video_id, status, error, duration_ms, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, videoID, status, errMsg, duration.Milliseconds(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record run item: %w", err)
	}
	return nil
}

func (l *Ledger) FinishRun(ctx context.Context, runID string) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339), runID,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}
