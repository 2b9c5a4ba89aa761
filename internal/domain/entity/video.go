package entity

import (
	"fmt"
)

// DefaultFrameRate is the sampling stride applied when none is configured:
// keep one of every 100 decoded frames.
const DefaultFrameRate = 100

const framePrefix = "frame-"

// Frame is one sampled image extracted from a video. FileName encodes the
// raw decode-order index of the frame, not the sample ordinal. OCRDone
// records that the OCR stage has visited this frame, so a frame that
// legitimately contains no text is distinguishable from one not yet
// processed.
type Frame struct {
	FileName string      `json:"file_name"`
	Results  []OCRResult `json:"results"`
	OCRDone  bool        `json:"ocr_done,omitempty"`
}

// NewFrame returns a Frame with an empty, non-nil result list.
func NewFrame(fileName string) Frame {
	return Frame{FileName: fileName, Results: []OCRResult{}}
}

// FrameFileName derives the on-disk name for the frame at the given
// zero-based decode index.
func FrameFileName(index int) string {
	return fmt.Sprintf("%s%d.png", framePrefix, index)
}

// Video is the processing state of a single source video. VideoID is the
// primary key and immutable after creation; all on-disk paths are derived
// from it and the configured data root, never stored here.
type Video struct {
	VideoID   string  `json:"video_id"`
	FrameRate int     `json:"frame_rate"`
	Frames    []Frame `json:"frames"`
}

// NewVideo creates a fresh Video with an empty frame list. A frameRate of
// zero or less selects DefaultFrameRate.
func NewVideo(videoID string, frameRate int) (*Video, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id must not be empty")
	}
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Video{
		VideoID:   videoID,
		FrameRate: frameRate,
		Frames:    []Frame{},
	}, nil
}

// Validate checks the structural invariants of the entity. Frame file
// names must be unique within one video.
func (v *Video) Validate() error {
	if v.VideoID == "" {
		return fmt.Errorf("video id must not be empty")
	}
	if v.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", v.FrameRate)
	}
	seen := make(map[string]struct{}, len(v.Frames))
	for _, f := range v.Frames {
		if _, ok := seen[f.FileName]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateFrameName, f.FileName)
		}
		seen[f.FileName] = struct{}{}
	}
	return nil
}

// SetFrames replaces the frame list, enforcing the uniqueness invariant.
func (v *Video) SetFrames(frames []Frame) error {
	if frames == nil {
		frames = []Frame{}
	}
	prev := v.Frames
	v.Frames = frames
	if err := v.Validate(); err != nil {
		v.Frames = prev
		return err
	}
	return nil
}

// PendingOCR counts frames the OCR stage has not yet visited.
func (v *Video) PendingOCR() int {
	n := 0
	for _, f := range v.Frames {
		if !f.OCRDone {
			n++
		}
	}
	return n
}

// OCRComplete reports whether every extracted frame has been through the
// OCR stage. A video with no frames is not complete.
func (v *Video) OCRComplete() bool {
	return len(v.Frames) > 0 && v.PendingOCR() == 0
}
