package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
	"github.com/kj-9/video-ocr/internal/domain/port"
	"github.com/kj-9/video-ocr/internal/infra/ledger"
	"github.com/kj-9/video-ocr/internal/infra/store"
	"github.com/kj-9/video-ocr/internal/runner"
	"github.com/kj-9/video-ocr/internal/usecase"
)

type stubDownloader struct {
	calls  int32
	failID string
}

func (d *stubDownloader) Download(ctx context.Context, videoID string, policy port.ResolutionPolicy, destPath string) error {
	atomic.AddInt32(&d.calls, 1)
	if videoID == d.failID {
		return fmt.Errorf("%w: video %s unavailable", entity.ErrDownloadFailed, videoID)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, []byte("fake mp4 "+videoID), 0o644)
}

func (d *stubDownloader) ListFormats(ctx context.Context, videoID string) ([]port.Format, error) {
	return nil, nil
}

type stubExtractor struct {
	calls int32
}

func (e *stubExtractor) Extract(ctx context.Context, videoPath, framesDir string, sampleRate int) (*port.ExtractionResult, error) {
	atomic.AddInt32(&e.calls, 1)
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, err
	}
	result := &port.ExtractionResult{VideoDuration: 12.5}
	for _, index := range []int{0, sampleRate, 2 * sampleRate} {
		name := entity.FrameFileName(index)
		path := filepath.Join(framesDir, name)
		if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
			return nil, err
		}
		result.Frames = append(result.Frames, port.SampledFrame{Index: index, FileName: name, Path: path})
	}
	result.FrameCount = len(result.Frames)
	return result, nil
}

type stubRecognizer struct {
	calls int32
}

func (r *stubRecognizer) Detect(ctx context.Context, imagePath string, languages []string) ([]entity.OCRResult, error) {
	atomic.AddInt32(&r.calls, 1)
	if filepath.Base(imagePath) == "frame-0.png" {
		return []entity.OCRResult{
			{Text: "タイトル", Confidence: 0.92, Box: entity.BoundingBox{X: 0.1, Y: 0.05, Width: 0.4, Height: 0.08}},
		}, nil
	}
	return nil, nil
}

func newPipeline(t *testing.T, root string, downloader *stubDownloader, extractor *stubExtractor, recognizer *stubRecognizer) (*store.Store, *usecase.ProcessVideoUseCase) {
	t.Helper()
	videoStore := store.New(root, zap.NewNop())
	uc := usecase.NewProcessVideoUseCase(videoStore, downloader, extractor, recognizer, zap.NewNop(), usecase.Options{
		FrameRate:  100,
		Resolution: port.ResolutionWorst,
		Languages:  []string{"jpn"},
	})
	return videoStore, uc
}

func TestBatchIsolatesFailingDownload(t *testing.T) {
	root := t.TempDir()
	downloader := &stubDownloader{failID: "vid-2"}
	videoStore, uc := newPipeline(t, root, downloader, &stubExtractor{}, &stubRecognizer{})

	runLedger, err := ledger.Open(filepath.Join(root, "runs.db"))
	require.NoError(t, err)
	defer runLedger.Close()

	pool := runner.NewPool(runner.Config{
		Mode:    runner.ModeThreads,
		Workers: 2,
		Logger:  zap.NewNop(),
		Ledger:  runLedger,
	})
	results := pool.Run(context.Background(), []string{"vid-1", "vid-2", "vid-3"}, uc.Execute)

	require.Len(t, results, 3)
	assert.Equal(t, 1, runner.FailedCount(results))

	for _, id := range []string{"vid-1", "vid-3"} {
		video, err := videoStore.Load(id)
		require.NoError(t, err, id)
		assert.True(t, video.OCRComplete(), id)
		require.Len(t, video.Frames, 3, id)
		assert.Equal(t, "タイトル", video.Frames[0].Results[0].Text, id)
		assert.Empty(t, video.Frames[1].Results, id)
	}

	_, err = videoStore.Load("vid-2")
	assert.ErrorIs(t, err, entity.ErrRecordNotFound)
}

func TestRerunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	downloader := &stubDownloader{}
	extractor := &stubExtractor{}
	recognizer := &stubRecognizer{}
	videoStore, uc := newPipeline(t, root, downloader, extractor, recognizer)

	ctx := context.Background()
	require.NoError(t, uc.Execute(ctx, "vid-1"))

	firstRecord, err := os.ReadFile(videoStore.RecordPath("vid-1"))
	require.NoError(t, err)
	downloads := atomic.LoadInt32(&downloader.calls)
	extracts := atomic.LoadInt32(&extractor.calls)
	detections := atomic.LoadInt32(&recognizer.calls)

	require.NoError(t, uc.Execute(ctx, "vid-1"))

	secondRecord, err := os.ReadFile(videoStore.RecordPath("vid-1"))
	require.NoError(t, err)
	assert.Equal(t, firstRecord, secondRecord)
	assert.Equal(t, downloads, atomic.LoadInt32(&downloader.calls))
	assert.Equal(t, extracts, atomic.LoadInt32(&extractor.calls))
	assert.Equal(t, detections, atomic.LoadInt32(&recognizer.calls))
}

func TestRerunRecoversFromCorruptRecord(t *testing.T) {
	root := t.TempDir()
	videoStore, uc := newPipeline(t, root, &stubDownloader{}, &stubExtractor{}, &stubRecognizer{})

	ctx := context.Background()
	require.NoError(t, uc.Execute(ctx, "vid-1"))
	require.NoError(t, os.WriteFile(videoStore.RecordPath("vid-1"), []byte("{truncated"), 0o644))

	require.NoError(t, uc.Execute(ctx, "vid-1"))

	video, err := videoStore.Load("vid-1")
	require.NoError(t, err)
	assert.True(t, video.OCRComplete())
}
