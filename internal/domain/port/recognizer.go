package port

import (
	"context"

	"github.com/kj-9/video-ocr/internal/domain/entity"
)

// TextRecognizer runs text detection over a single image. An image with no
// recognizable text yields an empty slice and a nil error; engine-level
// failures are returned as errors wrapping entity.ErrOCREngine.
type TextRecognizer interface {
	Detect(ctx context.Context, imagePath string, languages []string) ([]entity.OCRResult, error)
}
