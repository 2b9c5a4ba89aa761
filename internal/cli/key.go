package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kj-9/video-ocr/internal/infra/keys"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored YouTube API key",
}

var keyPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the credential file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := keys.Path()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, path)
		return nil
	},
}

var keySetCmd = &cobra.Command{
	Use:   "set <api-key>",
	Short: "Store the YouTube API key in the credential file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := keys.Set(keys.YouTubeAPIKey, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "stored %s in %s\n", keys.YouTubeAPIKey, path)
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyPathCmd)
	keyCmd.AddCommand(keySetCmd)
	rootCmd.AddCommand(keyCmd)
}
