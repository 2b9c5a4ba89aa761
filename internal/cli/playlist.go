package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kj-9/video-ocr/internal/infra/keys"
	"github.com/kj-9/video-ocr/internal/infra/store"
	"github.com/kj-9/video-ocr/internal/infra/youtube"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <playlist-id> [output]",
	Short: "Fetch a playlist listing and save it as JSON",
	Long: `Fetch a playlist listing and save it as JSON.

Without an output argument the listing is written to playlist.json under
the data root. Pass a file path to write elsewhere, or '-' for stdout.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey, err := keys.Lookup(keys.YouTubeAPIKey)
		if err != nil {
			return err
		}
		if apiKey == "" {
			return fmt.Errorf("no YouTube API key found; set it with 'vocr key set'")
		}

		client := youtube.NewClient(cfg.APIBaseURL, apiKey, log)
		playlist, err := client.FetchPlaylist(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if len(args) == 2 {
			return writePlaylistTo(args[1], playlist)
		}

		path, err := store.New(cfg.DataDir, log).SavePlaylist(playlist)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %d items to %s\n", len(playlist.Items), path)
		return nil
	},
}

func writePlaylistTo(output string, playlist any) error {
	out := os.Stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(playlist)
}

func init() {
	rootCmd.AddCommand(playlistCmd)
}
