package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kj-9/video-ocr/internal/infra/config"
)

func TestChildProcessArgsForwardsOverrides(t *testing.T) {
	c := &config.Config{
		DataDir:    "/custom/root",
		FrameRate:  50,
		Resolution: "best",
		Languages:  []string{"jpn", "eng"},
		LogLevel:   "debug",
	}

	args := childProcessArgs(c, "vid-1")

	assert.Equal(t, []string{
		"process",
		"--video", "vid-1",
		"--data-dir", "/custom/root",
		"--frame-rate", "50",
		"--resolution", "best",
		"--languages", "jpn,eng",
		"--log-level", "debug",
	}, args)
}

func TestProcessArgvUsesActiveConfig(t *testing.T) {
	prev := cfg
	defer func() { cfg = prev }()
	cfg = &config.Config{
		DataDir:    "/custom/root",
		FrameRate:  50,
		Resolution: "worst",
		Languages:  []string{"jpn"},
		LogLevel:   "info",
	}

	argv, err := processArgv("vid-1")
	require.NoError(t, err)
	require.Greater(t, len(argv), 1)
	assert.NotEmpty(t, argv[0])
	assert.Equal(t, childProcessArgs(cfg, "vid-1"), argv[1:])
	assert.Contains(t, argv, "/custom/root")
}
