package port

import "context"

// SampledFrame is one kept frame of an extraction pass. Index is the
// zero-based decode-order index of the frame in the source stream.
type SampledFrame struct {
	Index    int
	FileName string
	Path     string
}

// ExtractionResult reports the outcome of a frame extraction pass, ordered
// by decode index.
type ExtractionResult struct {
	Frames        []SampledFrame
	FrameCount    int
	VideoDuration float64
}

// FrameExtractor decodes a local video file sequentially from offset 0 and
// writes every frame whose decode index is divisible by sampleRate into
// framesDir. Calling it again re-extracts and overwrites; skipping
// already-extracted videos is the driver's concern.
type FrameExtractor interface {
	Extract(ctx context.Context, videoPath, framesDir string, sampleRate int) (*ExtractionResult, error)
}
