package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DataDir    string   `env:"VIDEO_OCR_DATA_DIR"    envDefault:"data"`
	FrameRate  int      `env:"VIDEO_OCR_FRAME_RATE"  envDefault:"100"`
	Resolution string   `env:"VIDEO_OCR_RESOLUTION"  envDefault:"worst"`
	Languages  []string `env:"VIDEO_OCR_LANGUAGES"   envDefault:"jpn" envSeparator:","`

	Workers  int    `env:"VIDEO_OCR_WORKERS"   envDefault:"4"`
	PoolMode string `env:"VIDEO_OCR_POOL_MODE" envDefault:"threads"`

	PlaylistID string `env:"VIDEO_OCR_PLAYLIST_ID"`
	APIBaseURL string `env:"VIDEO_OCR_API_BASE_URL" envDefault:"https://www.googleapis.com/youtube/v3"`

	YTDLPBinary string `env:"VIDEO_OCR_YTDLP" envDefault:"yt-dlp"`

	MetricsPort int    `env:"VIDEO_OCR_METRICS_PORT" envDefault:"0"`
	LogLevel    string `env:"VIDEO_OCR_LOG_LEVEL"    envDefault:"info"`

	LedgerPath string `env:"VIDEO_OCR_LEDGER_PATH"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LedgerFile returns the run-ledger location, defaulting to runs.db under
// the data root.
func (c *Config) LedgerFile() string {
	if c.LedgerPath != "" {
		return c.LedgerPath
	}
	return filepath.Join(c.DataDir, "runs.db")
}
