package tesseract

import (
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
)

// Engine recognizes text in frame images through the tesseract C API. A
// gosseract client is not safe to share across goroutines, so each Detect
// call owns a fresh one.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Detect runs line-level recognition on the image at imagePath. Languages
// are tesseract codes like "jpn" or "eng". A frame with no recognizable
// text yields a nil slice and no error.
func (e *Engine) Detect(ctx context.Context, imagePath string, languages []string) ([]entity.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height, err := imageDims(imagePath)
	if err != nil {
		return nil, fmt.Errorf("%w: read image %s: %v", entity.ErrOCREngine, imagePath, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return nil, fmt.Errorf("%w: set languages %v: %v", entity.ErrOCREngine, languages, err)
		}
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("%w: set image %s: %v", entity.ErrOCREngine, imagePath, err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("%w: recognize %s: %v", entity.ErrOCREngine, imagePath, err)
	}

	results := toResults(boxes, width, height)

	e.logger.Debug("frame recognized",
		zap.String("image_path", imagePath),
		zap.Int("detections", len(results)),
	)
	return results, nil
}

// toResults converts raw tesseract boxes into normalized results, dropping
// whitespace-only lines.
func toResults(boxes []gosseract.BoundingBox, width, height int) []entity.OCRResult {
	var results []entity.OCRResult
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		results = append(results, entity.OCRResult{
			Text:       text,
			Confidence: b.Confidence / 100,
			Box:        normalizeBox(b.Box, width, height),
		})
	}
	return results
}

// normalizeBox scales pixel coordinates into the 0..1 range relative to
// the image dimensions.
func normalizeBox(r image.Rectangle, width, height int) entity.BoundingBox {
	if width <= 0 || height <= 0 {
		return entity.BoundingBox{}
	}
	w := float64(width)
	h := float64(height)
	return entity.BoundingBox{
		X:      float64(r.Min.X) / w,
		Y:      float64(r.Min.Y) / h,
		Width:  float64(r.Dx()) / w,
		Height: float64(r.Dy()) / h,
	}
}

// imageDims reads only the PNG header to learn the frame dimensions.
func imageDims(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
