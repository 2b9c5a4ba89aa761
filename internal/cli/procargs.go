package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kj-9/video-ocr/internal/infra/config"
)

// childProcessArgs builds the argument list for a process-pool child so
// it sees the same effective configuration as the parent, including flag
// overrides that exist only in the parent's memory.
func childProcessArgs(c *config.Config, videoID string) []string {
	return []string{
		"process",
		"--video", videoID,
		"--data-dir", c.DataDir,
		"--frame-rate", strconv.Itoa(c.FrameRate),
		"--resolution", c.Resolution,
		"--languages", strings.Join(c.Languages, ","),
		"--log-level", c.LogLevel,
	}
}

// processArgv re-executes this binary for one video, forwarding the
// active configuration on the command line.
func processArgv(videoID string) ([]string, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolve own executable: %w", err)
	}
	return append([]string{self}, childProcessArgs(cfg, videoID)...), nil
}
