package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var processVideoID string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the full pipeline for a single video",
	RunE: func(cmd *cobra.Command, args []string) error {
		uc := buildUseCase()
		if err := uc.Execute(cmd.Context(), processVideoID); err != nil {
			return fmt.Errorf("process video %s: %w", processVideoID, err)
		}
		return nil
	},
}

func init() {
	processCmd.Flags().StringVar(&processVideoID, "video", "", "Video id to process")
	processCmd.MarkFlagRequired("video")
	rootCmd.AddCommand(processCmd)
}
