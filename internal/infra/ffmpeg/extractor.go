package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
	"github.com/kj-9/video-ocr/internal/domain/port"
)

// samplePattern is the temporary output pattern handed to ffmpeg. Kept
// frames are renamed to their decode-index names afterwards.
const samplePattern = ".sample-%06d.png"

const sampleGlob = ".sample-*.png"

// Extractor samples frames from a local video file by shelling out to
// ffmpeg. ffprobe is consulted for the source duration when available.
type Extractor struct {
	ffmpegBin  string
	ffprobeBin string
	logger     *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{
		ffmpegBin:  "ffmpeg",
		ffprobeBin: "ffprobe",
		logger:     logger,
	}
}

// Extract keeps every sampleRate-th frame of decode order, writing each as
// frame-{index}.png into framesDir. A rerun overwrites prior output.
func (e *Extractor) Extract(ctx context.Context, videoPath, framesDir string, sampleRate int) (*port.ExtractionResult, error) {
	if sampleRate <= 0 {
		sampleRate = entity.DefaultFrameRate
	}

	if _, err := os.Stat(videoPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrSourceMissing, videoPath)
		}
		return nil, fmt.Errorf("stat source video %s: %w", videoPath, err)
	}

	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create frames directory %s: %w", framesDir, err)
	}
	if err := removeStaleSamples(framesDir); err != nil {
		return nil, err
	}

	duration := e.probeDuration(ctx, videoPath)

	start := time.Now()
	args := extractArgs(videoPath, framesDir, sampleRate)
	cmd := exec.CommandContext(ctx, e.ffmpegBin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg extraction failed for %s: %w: %s", videoPath, err, tail(out))
	}

	frames, err := renameSamples(framesDir, sampleRate)
	if err != nil {
		return nil, err
	}

	e.logger.Info("frames extracted",
		zap.String("video_path", videoPath),
		zap.Int("sample_rate", sampleRate),
		zap.Int("frame_count", len(frames)),
		zap.Float64("video_duration_seconds", duration),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &port.ExtractionResult{
		Frames:        frames,
		FrameCount:    len(frames),
		VideoDuration: duration,
	}, nil
}

// probeDuration asks ffprobe for the container duration. Failure is
// logged and reported as zero; extraction does not depend on it.
func (e *Extractor) probeDuration(ctx context.Context, videoPath string) float64 {
	cmd := exec.CommandContext(ctx, e.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		e.logger.Warn("ffprobe duration failed", zap.String("video_path", videoPath), zap.Error(err))
		return 0
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		e.logger.Warn("ffprobe returned unparseable duration",
			zap.String("video_path", videoPath), zap.String("output", strings.TrimSpace(string(out))))
		return 0
	}
	return duration
}

// extractArgs builds the ffmpeg invocation that keeps frames whose decode
// index n satisfies n mod rate == 0. -vsync 0 preserves decode order so
// output sequence number k maps to decode index (k-1)*rate.
func extractArgs(videoPath, framesDir string, sampleRate int) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select=not(mod(n\\,%d))", sampleRate),
		"-vsync", "0",
		filepath.Join(framesDir, samplePattern),
	}
}

// removeStaleSamples clears temp output left by an interrupted run so the
// sequence numbering starts fresh.
func removeStaleSamples(framesDir string) error {
	stale, err := filepath.Glob(filepath.Join(framesDir, sampleGlob))
	if err != nil {
		return fmt.Errorf("glob stale samples in %s: %w", framesDir, err)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale sample %s: %w", path, err)
		}
	}
	return nil
}

// renameSamples maps ffmpeg's sequential temp names onto decode-index
// names and returns the kept frames in decode order. Ordering uses the
// parsed sequence number, so names longer than the pattern's zero padding
// still sort correctly.
func renameSamples(framesDir string, sampleRate int) ([]port.SampledFrame, error) {
	paths, err := filepath.Glob(filepath.Join(framesDir, sampleGlob))
	if err != nil {
		return nil, fmt.Errorf("glob samples in %s: %w", framesDir, err)
	}

	type sample struct {
		seq  int
		path string
	}
	samples := make([]sample, 0, len(paths))
	for _, path := range paths {
		seq, err := sampleSequence(filepath.Base(path))
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample{seq: seq, path: path})
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].seq < samples[j].seq })

	frames := make([]port.SampledFrame, 0, len(samples))
	for _, s := range samples {
		index := (s.seq - 1) * sampleRate
		fileName := entity.FrameFileName(index)
		dest := filepath.Join(framesDir, fileName)
		if err := os.Rename(s.path, dest); err != nil {
			return nil, fmt.Errorf("rename sample %s: %w", s.path, err)
		}
		frames = append(frames, port.SampledFrame{
			Index:    index,
			FileName: fileName,
			Path:     dest,
		})
	}
	return frames, nil
}

// sampleSequence parses the 1-based sequence number out of a temp sample
// file name like ".sample-000003.png".
func sampleSequence(name string) (int, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(name, ".sample-"), ".png")
	seq, err := strconv.Atoi(trimmed)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("unexpected sample file name %q", name)
	}
	return seq, nil
}

func tail(out []byte) string {
	const max = 512
	s := strings.TrimSpace(string(out))
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}
