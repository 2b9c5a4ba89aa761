package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// defaultProcessArgv re-executes the current binary's single-video
// subcommand with only the id; configuration then comes from the child's
// own environment. Callers whose effective configuration differs from the
// environment forward it through Config.ProcessArgv.
func defaultProcessArgv(videoID string) ([]string, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve own executable: %w", err)
	}
	return []string{self, "process", "--video", videoID}, nil
}

// processItem runs one video in a child process and reports its exit
// status as the item outcome.
func (p *Pool) processItem(ctx context.Context, videoID string) error {
	argvFn := p.cfg.ProcessArgv
	if argvFn == nil {
		argvFn = defaultProcessArgv
	}
	argv, err := argvFn(videoID)
	if err != nil {
		return err
	}
	if len(argv) == 0 {
		return fmt.Errorf("empty child command for video %s", videoID)
	}

	var stderr limitedBuffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	p.cfg.Logger.Debug("spawning child process",
		zap.String("video_id", videoID),
		zap.Strings("argv", argv),
	)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("child process for video %s: %w: %s", videoID, err, stderr.String())
	}
	return nil
}

// limitedBuffer keeps only the most recent chunk of child stderr so a
// chatty child cannot grow the failure message without bound.
type limitedBuffer struct {
	buf bytes.Buffer
}

const stderrTailLimit = 2 << 10

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.buf.Write(p)
	if b.buf.Len() > stderrTailLimit {
		data := b.buf.Bytes()
		trimmed := make([]byte, stderrTailLimit)
		copy(trimmed, data[len(data)-stderrTailLimit:])
		b.buf.Reset()
		b.buf.Write(trimmed)
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
