package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
	"github.com/kj-9/video-ocr/internal/domain/port"
	"github.com/kj-9/video-ocr/internal/infra/metrics"
)

// Options carries the per-run pipeline parameters. FrameRate applies only
// when a video record is first created; an existing record keeps the rate
// it was extracted with.
type Options struct {
	FrameRate  int
	Resolution port.ResolutionPolicy
	Languages  []string
}

// ProcessVideoUseCase drives one video through download, frame extraction
// and OCR. Every stage is skipped when its output already exists, so
// rerunning after a partial failure resumes where the previous run
// stopped.
type ProcessVideoUseCase struct {
	store      port.VideoStore
	downloader port.Downloader
	extractor  port.FrameExtractor
	recognizer port.TextRecognizer
	logger     *zap.Logger
	opts       Options
}

func NewProcessVideoUseCase(
	store port.VideoStore,
	downloader port.Downloader,
	extractor port.FrameExtractor,
	recognizer port.TextRecognizer,
	logger *zap.Logger,
	opts Options,
) *ProcessVideoUseCase {
	return &ProcessVideoUseCase{
		store:      store,
		downloader: downloader,
		extractor:  extractor,
		recognizer: recognizer,
		logger:     logger,
		opts:       opts,
	}
}

// Execute runs the full pipeline for one video id.
func (uc *ProcessVideoUseCase) Execute(ctx context.Context, videoID string) error {
	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	log := uc.logger.With(zap.String("video_id", videoID))
	log.Info("processing video")

	video, err := uc.loadOrCreate(videoID, log)
	if err != nil {
		metrics.VideosProcessedTotal.WithLabelValues(metrics.StatusFailed).Inc()
		return err
	}

	if err := uc.runStages(ctx, video, log); err != nil {
		metrics.VideosProcessedTotal.WithLabelValues(metrics.StatusFailed).Inc()
		return err
	}

	metrics.VideosProcessedTotal.WithLabelValues(metrics.StatusCompleted).Inc()
	log.Info("video processed", zap.Int("frames", len(video.Frames)))
	return nil
}

func (uc *ProcessVideoUseCase) runStages(ctx context.Context, video *entity.Video, log *zap.Logger) error {
	if err := uc.ensureDownloaded(ctx, video, log); err != nil {
		return err
	}
	if err := uc.ensureFrames(ctx, video, log); err != nil {
		return err
	}
	return uc.ensureOCR(ctx, video, log)
}

// loadOrCreate fetches the persisted record. A missing record starts
// fresh silently; a corrupt one is logged and replaced.
func (uc *ProcessVideoUseCase) loadOrCreate(videoID string, log *zap.Logger) (*entity.Video, error) {
	video, err := uc.store.Load(videoID)
	switch {
	case err == nil:
		return video, nil
	case errors.Is(err, entity.ErrRecordNotFound):
		log.Debug("no existing record, starting fresh")
	case errors.Is(err, entity.ErrRecordCorrupt):
		log.Warn("record corrupt, starting fresh", zap.Error(err))
	default:
		return nil, fmt.Errorf("load record for %s: %w", videoID, err)
	}
	return entity.NewVideo(videoID, uc.opts.FrameRate)
}

// ensureDownloaded fetches the source file unless it is already on disk.
func (uc *ProcessVideoUseCase) ensureDownloaded(ctx context.Context, video *entity.Video, log *zap.Logger) error {
	dest := uc.store.VideoPath(video.VideoID)
	if _, err := os.Stat(dest); err == nil {
		log.Debug("video file present, skipping download", zap.String("path", dest))
		return nil
	}

	if err := uc.store.EnsureDirs(video.VideoID); err != nil {
		return fmt.Errorf("prepare storage for %s: %w", video.VideoID, err)
	}

	start := time.Now()
	if err := uc.downloader.Download(ctx, video.VideoID, uc.opts.Resolution, dest); err != nil {
		if errors.Is(err, entity.ErrDownloadFailed) {
			return err
		}
		return fmt.Errorf("%w: video %s: %v", entity.ErrDownloadFailed, video.VideoID, err)
	}
	metrics.StageDuration.WithLabelValues(metrics.StageDownload).Observe(time.Since(start).Seconds())

	if _, err := os.Stat(dest); err != nil {
		return fmt.Errorf("%w: video %s: downloader left no file at %s", entity.ErrDownloadFailed, video.VideoID, dest)
	}
	return nil
}

// ensureFrames extracts sampled frames unless the record already lists
// some. The record is saved immediately after extraction so a later OCR
// failure cannot lose the frame list.
func (uc *ProcessVideoUseCase) ensureFrames(ctx context.Context, video *entity.Video, log *zap.Logger) error {
	if len(video.Frames) > 0 {
		log.Debug("frames already extracted, skipping", zap.Int("frames", len(video.Frames)))
		return nil
	}

	start := time.Now()
	result, err := uc.extractor.Extract(ctx, uc.store.VideoPath(video.VideoID), uc.store.FramesDir(video.VideoID), video.FrameRate)
	if err != nil {
		return fmt.Errorf("extract frames for %s: %w", video.VideoID, err)
	}
	metrics.StageDuration.WithLabelValues(metrics.StageExtract).Observe(time.Since(start).Seconds())
	metrics.FramesExtractedTotal.Add(float64(len(result.Frames)))

	frames := make([]entity.Frame, 0, len(result.Frames))
	for _, f := range result.Frames {
		frames = append(frames, entity.NewFrame(f.FileName))
	}
	if err := video.SetFrames(frames); err != nil {
		return fmt.Errorf("register frames for %s: %w", video.VideoID, err)
	}

	if _, err := uc.store.Save(video); err != nil {
		return fmt.Errorf("save record after extraction for %s: %w", video.VideoID, err)
	}
	return nil
}

// ensureOCR recognizes text in every frame not yet visited. Progress up to
// a failing frame is persisted before the error propagates.
func (uc *ProcessVideoUseCase) ensureOCR(ctx context.Context, video *entity.Video, log *zap.Logger) error {
	pending := video.PendingOCR()
	if pending == 0 {
		log.Debug("ocr already complete, skipping")
		return nil
	}
	log.Info("running ocr", zap.Int("pending_frames", pending))

	framesDir := uc.store.FramesDir(video.VideoID)
	start := time.Now()

	for i := range video.Frames {
		frame := &video.Frames[i]
		if frame.OCRDone {
			continue
		}

		results, err := uc.recognizer.Detect(ctx, filepath.Join(framesDir, frame.FileName), uc.opts.Languages)
		if err != nil {
			if _, saveErr := uc.store.Save(video); saveErr != nil {
				log.Warn("failed to save partial ocr progress", zap.Error(saveErr))
			}
			return fmt.Errorf("ocr frame %s of %s: %w", frame.FileName, video.VideoID, err)
		}

		if results == nil {
			results = []entity.OCRResult{}
		}
		frame.Results = results
		frame.OCRDone = true
		metrics.OCRDetectionsTotal.Add(float64(len(results)))
	}

	metrics.StageDuration.WithLabelValues(metrics.StageOCR).Observe(time.Since(start).Seconds())

	if _, err := uc.store.Save(video); err != nil {
		return fmt.Errorf("save record after ocr for %s: %w", video.VideoID, err)
	}
	return nil
}
