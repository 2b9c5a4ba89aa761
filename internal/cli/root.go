package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/infra/config"
	"github.com/kj-9/video-ocr/pkg/logger"
)

// Version is the application version.
const Version = "0.1.0"

var (
	cfg *config.Config
	log *zap.Logger

	flagDataDir     string
	flagFrameRate   int
	flagResolution  string
	flagLanguages   string
	flagWorkers     int
	flagPoolMode    string
	flagLogLevel    string
	flagMetricsPort int
)

var rootCmd = &cobra.Command{
	Use:     "vocr",
	Short:   "Download videos, sample frames and OCR them into JSON records",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		applyFlagOverrides(cmd)

		log, err = logger.New(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// applyFlagOverrides layers explicitly set flags over the environment
// configuration. Only flags the user changed win.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if flags.Changed("frame-rate") {
		cfg.FrameRate = flagFrameRate
	}
	if flags.Changed("resolution") {
		cfg.Resolution = flagResolution
	}
	if flags.Changed("languages") {
		cfg.Languages = splitLanguages(flagLanguages)
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("pool-mode") {
		cfg.PoolMode = flagPoolMode
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("metrics-port") {
		cfg.MetricsPort = flagMetricsPort
	}
}

func splitLanguages(s string) []string {
	var out []string
	for _, lang := range strings.Split(s, ",") {
		lang = strings.TrimSpace(lang)
		if lang != "" {
			out = append(out, lang)
		}
	}
	return out
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDataDir, "data-dir", "data", "Root directory for downloaded videos, frames and records")
	pf.IntVar(&flagFrameRate, "frame-rate", 100, "Keep one of every N decoded frames")
	pf.StringVar(&flagResolution, "resolution", "worst", "Resolution policy: worst, best, or an explicit format id")
	pf.StringVar(&flagLanguages, "languages", "jpn", "Comma-separated tesseract language codes")
	pf.IntVar(&flagWorkers, "workers", 4, "Number of concurrent workers for batch runs")
	pf.StringVar(&flagPoolMode, "pool-mode", "threads", "Batch isolation: threads or processes")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.IntVar(&flagMetricsPort, "metrics-port", 0, "Expose Prometheus metrics on this port (0 disables)")
}
