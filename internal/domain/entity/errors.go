package entity

import "errors"

// Error taxonomy for the pipeline. RecordNotFound and RecordCorrupt are
// recovered locally by falling back to a fresh Video; everything else
// surfaces to the batch runner as a per-video failure.
var (
	ErrRecordNotFound     = errors.New("video record not found")
	ErrRecordCorrupt      = errors.New("video record corrupt")
	ErrSourceMissing      = errors.New("video source file missing")
	ErrDownloadFailed     = errors.New("video download failed")
	ErrOCREngine          = errors.New("ocr engine failure")
	ErrDuplicateFrameName = errors.New("duplicate frame file name")
)
