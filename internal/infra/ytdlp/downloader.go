package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
	"github.com/kj-9/video-ocr/internal/domain/port"
)

// Downloader fetches videos by shelling out to yt-dlp.
type Downloader struct {
	binary string
	logger *zap.Logger
}

func NewDownloader(binary string, logger *zap.Logger) *Downloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Downloader{binary: binary, logger: logger}
}

// CheckBinary verifies the configured yt-dlp executable is on PATH.
func (d *Downloader) CheckBinary() error {
	if _, err := exec.LookPath(d.binary); err != nil {
		return fmt.Errorf("yt-dlp binary %q not found: %w", d.binary, err)
	}
	return nil
}

// Download fetches the video selected by policy into destPath. Any failure
// of the download tool, and a tool run that exits zero without leaving a
// file behind, both surface as entity.ErrDownloadFailed.
func (d *Downloader) Download(ctx context.Context, videoID string, policy port.ResolutionPolicy, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create download directory for %s: %w", destPath, err)
	}

	start := time.Now()
	args := downloadArgs(videoID, policy, destPath)
	cmd := exec.CommandContext(ctx, d.binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: video %s: %v: %s", entity.ErrDownloadFailed, videoID, err, tail(out))
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return fmt.Errorf("%w: video %s: no file at %s after download", entity.ErrDownloadFailed, videoID, destPath)
	}

	d.logger.Info("video downloaded",
		zap.String("video_id", videoID),
		zap.String("path", destPath),
		zap.Int64("size_bytes", info.Size()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// ListFormats returns the downloadable streams yt-dlp reports for a video.
func (d *Downloader) ListFormats(ctx context.Context, videoID string) ([]port.Format, error) {
	cmd := exec.CommandContext(ctx, d.binary, "-J", "--no-warnings", watchURL(videoID))
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list formats for video %s: %w", videoID, err)
	}

	var payload struct {
		Formats []struct {
			FormatID   string `json:"format_id"`
			Ext        string `json:"ext"`
			Width      int    `json:"width"`
			Height     int    `json:"height"`
			FormatNote string `json:"format_note"`
		} `json:"formats"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return nil, fmt.Errorf("parse format listing for video %s: %w", videoID, err)
	}

	formats := make([]port.Format, 0, len(payload.Formats))
	for _, f := range payload.Formats {
		formats = append(formats, port.Format{
			ID:     f.FormatID,
			Ext:    f.Ext,
			Width:  f.Width,
			Height: f.Height,
			Note:   f.FormatNote,
		})
	}
	return formats, nil
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// formatSelector maps a resolution policy onto a yt-dlp format selector.
// Unrecognized policies pass through verbatim as explicit format ids.
func formatSelector(policy port.ResolutionPolicy) string {
	switch policy {
	case port.ResolutionWorst, "":
		return "worstvideo/worst"
	case port.ResolutionBest:
		return "bestvideo/best"
	default:
		return string(policy)
	}
}

func downloadArgs(videoID string, policy port.ResolutionPolicy, destPath string) []string {
	return []string{
		"--no-warnings",
		"--no-progress",
		"-f", formatSelector(policy),
		"-o", destPath,
		watchURL(videoID),
	}
}

func tail(out []byte) string {
	const max = 512
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}
