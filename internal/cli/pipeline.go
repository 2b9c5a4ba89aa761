package cli

import (
	"github.com/kj-9/video-ocr/internal/domain/port"
	"github.com/kj-9/video-ocr/internal/infra/ffmpeg"
	"github.com/kj-9/video-ocr/internal/infra/store"
	"github.com/kj-9/video-ocr/internal/infra/tesseract"
	"github.com/kj-9/video-ocr/internal/infra/ytdlp"
	"github.com/kj-9/video-ocr/internal/usecase"
)

// buildUseCase wires the pipeline collaborators from the active
// configuration.
func buildUseCase() *usecase.ProcessVideoUseCase {
	videoStore := store.New(cfg.DataDir, log)
	downloader := ytdlp.NewDownloader(cfg.YTDLPBinary, log)
	extractor := ffmpeg.NewExtractor(log)
	recognizer := tesseract.NewEngine(log)

	return usecase.NewProcessVideoUseCase(
		videoStore,
		downloader,
		extractor,
		recognizer,
		log,
		usecase.Options{
			FrameRate:  cfg.FrameRate,
			Resolution: port.ResolutionPolicy(cfg.Resolution),
			Languages:  cfg.Languages,
		},
	)
}
