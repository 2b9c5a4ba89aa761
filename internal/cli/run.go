package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/infra/keys"
	"github.com/kj-9/video-ocr/internal/infra/ledger"
	"github.com/kj-9/video-ocr/internal/infra/metrics"
	"github.com/kj-9/video-ocr/internal/infra/store"
	"github.com/kj-9/video-ocr/internal/infra/youtube"
	"github.com/kj-9/video-ocr/internal/runner"
)

var (
	runPlaylistID string
	runLimit      int
)

var runCmd = &cobra.Command{
	Use:   "run [video-id ...]",
	Short: "Process a batch of videos over a worker pool",
	Long: `Process a batch of videos over a worker pool.

Video ids are taken from the arguments, or fetched from a playlist when
--playlist is given. One video failing never stops the rest of the batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := runner.ParseMode(cfg.PoolMode)
		if err != nil {
			return err
		}

		videoIDs, err := resolveVideoIDs(cmd, args)
		if err != nil {
			return err
		}
		if len(videoIDs) == 0 {
			return fmt.Errorf("no videos to process")
		}
		if runLimit > 0 && runLimit < len(videoIDs) {
			videoIDs = videoIDs[:runLimit]
		}

		metrics.StartServer(cfg.MetricsPort, log)

		runLedger, err := ledger.Open(cfg.LedgerFile())
		if err != nil {
			log.Warn("run ledger unavailable", zap.Error(err))
			runLedger = nil
		} else {
			defer runLedger.Close()
		}

		bar := progressbar.NewOptions(len(videoIDs),
			progressbar.OptionSetDescription("processing videos"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)

		poolCfg := runner.Config{
			Mode:        mode,
			Workers:     cfg.Workers,
			Logger:      log,
			OnItem:      func(runner.ItemResult) { bar.Add(1) },
			ProcessArgv: processArgv,
		}
		if runLedger != nil {
			poolCfg.Ledger = runLedger
		}
		pool := runner.NewPool(poolCfg)

		uc := buildUseCase()
		results := pool.Run(cmd.Context(), videoIDs, uc.Execute)
		bar.Finish()
		fmt.Fprintln(os.Stderr)

		if failed := runner.FailedCount(results); failed > 0 {
			return fmt.Errorf("%d of %d videos failed", failed, len(results))
		}
		fmt.Fprintf(os.Stderr, "processed %d videos\n", len(results))
		return nil
	},
}

// resolveVideoIDs takes ids from the arguments or fetches the configured
// playlist. The fetched listing is saved under the data root for later
// inspection.
func resolveVideoIDs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	playlistID := runPlaylistID
	if playlistID == "" {
		playlistID = cfg.PlaylistID
	}
	if playlistID == "" {
		return nil, fmt.Errorf("no video ids given and no playlist configured")
	}

	apiKey, err := keys.Lookup(keys.YouTubeAPIKey)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no YouTube API key found; set it with 'vocr key set'")
	}

	client := youtube.NewClient(cfg.APIBaseURL, apiKey, log)
	playlist, err := client.FetchPlaylist(cmd.Context(), playlistID)
	if err != nil {
		return nil, err
	}

	if _, err := store.New(cfg.DataDir, log).SavePlaylist(playlist); err != nil {
		log.Warn("failed to save playlist listing", zap.Error(err))
	}
	return playlist.ToVideoIDs(), nil
}

func init() {
	runCmd.Flags().StringVar(&runPlaylistID, "playlist", "", "Playlist id to take video ids from")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "Process at most N videos (0 means all)")
	rootCmd.AddCommand(runCmd)
}
