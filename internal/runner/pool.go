package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/port"
)

// Mode selects how batch items are isolated from each other.
type Mode string

const (
	// ModeThreads runs items on a bounded pool of goroutines in this
	// process.
	ModeThreads Mode = "threads"
	// ModeProcesses runs each item in a child process, so a crash in one
	// item cannot take down the batch.
	ModeProcesses Mode = "processes"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeThreads:
		return ModeThreads, nil
	case ModeProcesses:
		return ModeProcesses, nil
	default:
		return "", fmt.Errorf("unknown pool mode %q (want %q or %q)", s, ModeThreads, ModeProcesses)
	}
}

// ProcessFunc handles one video id.
type ProcessFunc func(ctx context.Context, videoID string) error

// ItemResult is the outcome for one batch item.
type ItemResult struct {
	VideoID  string
	Err      error
	Duration time.Duration
}

// Config assembles a Pool. Ledger and OnItem are optional.
type Config struct {
	Mode    Mode
	Workers int
	Logger  *zap.Logger
	Ledger  port.RunLedger
	// OnItem is invoked after each item finishes, from the collecting
	// goroutine, never concurrently.
	OnItem func(ItemResult)
	// ProcessArgv overrides the child command line in process mode. The
	// default re-executes this binary with its process subcommand.
	ProcessArgv func(videoID string) ([]string, error)
}

// Pool fans a list of video ids out over a fixed number of workers. One
// item failing never stops the other items; all failures are collected in
// the returned results.
type Pool struct {
	cfg Config
}

func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeThreads
	}
	return &Pool{cfg: cfg}
}

// Run processes every id and returns one result per id, in completion
// order. In process mode fn is ignored and each item runs in a child
// process.
func (p *Pool) Run(ctx context.Context, videoIDs []string, fn ProcessFunc) []ItemResult {
	if p.cfg.Mode == ModeProcesses {
		fn = p.processItem
	}

	runID := p.startRun(ctx)

	work := make(chan string)
	results := make(chan ItemResult)

	var wg sync.WaitGroup
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, work, results, fn)
		}()
	}

	go func() {
		defer close(work)
		for _, id := range videoIDs {
			select {
			case work <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]ItemResult, 0, len(videoIDs))
	for res := range results {
		p.recordItem(ctx, runID, res)
		if p.cfg.OnItem != nil {
			p.cfg.OnItem(res)
		}
		collected = append(collected, res)
	}

	p.finishRun(ctx, runID)
	return collected
}

func (p *Pool) worker(ctx context.Context, work <-chan string, results chan<- ItemResult, fn ProcessFunc) {
	for videoID := range work {
		if err := ctx.Err(); err != nil {
			p.cfg.Logger.Error("video skipped",
				zap.String("video_id", videoID),
				zap.Error(err),
			)
			results <- ItemResult{VideoID: videoID, Err: err}
			continue
		}

		start := time.Now()
		err := fn(ctx, videoID)
		res := ItemResult{VideoID: videoID, Err: err, Duration: time.Since(start)}

		if err != nil {
			p.cfg.Logger.Error("video failed",
				zap.String("video_id", videoID),
				zap.Duration("elapsed", res.Duration),
				zap.Error(err),
			)
		} else {
			p.cfg.Logger.Info("video completed",
				zap.String("video_id", videoID),
				zap.Duration("elapsed", res.Duration),
			)
		}
		results <- res
	}
}

// Ledger writes are best effort: a broken ledger degrades observability,
// never the batch.
func (p *Pool) startRun(ctx context.Context) string {
	if p.cfg.Ledger == nil {
		return ""
	}
	runID, err := p.cfg.Ledger.StartRun(ctx, string(p.cfg.Mode), p.cfg.Workers)
	if err != nil {
		p.cfg.Logger.Warn("ledger start failed", zap.Error(err))
		return ""
	}
	return runID
}

func (p *Pool) recordItem(ctx context.Context, runID string, res ItemResult) {
	if p.cfg.Ledger == nil || runID == "" {
		return
	}
	status := port.ItemCompleted
	errMsg := ""
	if res.Err != nil {
		status = port.ItemFailed
		errMsg = res.Err.Error()
	}
	if err := p.cfg.Ledger.RecordItem(ctx, runID, res.VideoID, status, errMsg, res.Duration); err != nil {
		p.cfg.Logger.Warn("ledger record failed", zap.String("video_id", res.VideoID), zap.Error(err))
	}
}

func (p *Pool) finishRun(ctx context.Context, runID string) {
	if p.cfg.Ledger == nil || runID == "" {
		return
	}
	if err := p.cfg.Ledger.FinishRun(ctx, runID); err != nil {
		p.cfg.Logger.Warn("ledger finish failed", zap.Error(err))
	}
}

// FailedCount counts the failed items of a batch.
func FailedCount(results []ItemResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
