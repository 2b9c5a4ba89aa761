package port

import (
	"context"
	"time"
)

// Ledger item statuses.
const (
	ItemCompleted = "completed"
	ItemFailed    = "failed"
)

// RunLedger records batch runs and their per-video outcomes. It is
// observability only; pipeline correctness never reads it back.
type RunLedger interface {
	StartRun(ctx context.Context, mode string, workers int) (runID string, err error)
	RecordItem(ctx context.Context, runID, videoID, status, errMsg string, duration time.Duration) error
	FinishRun(ctx context.Context, runID string) error
}
