package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kj-9/video-ocr/internal/infra/ytdlp"
)

var formatsCmd = &cobra.Command{
	Use:   "formats <video-id>",
	Short: "List the downloadable streams of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		downloader := ytdlp.NewDownloader(cfg.YTDLPBinary, log)
		if err := downloader.CheckBinary(); err != nil {
			return err
		}

		formats, err := downloader.ListFormats(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEXT\tRESOLUTION\tNOTE")
		for _, f := range formats {
			resolution := "audio only"
			if f.Width > 0 || f.Height > 0 {
				resolution = fmt.Sprintf("%dx%d", f.Width, f.Height)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.ID, f.Ext, resolution, f.Note)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
