package entity

import (
	"encoding/json"
	"fmt"
)

// BoundingBox locates a recognized text region in normalized 0-1
// coordinates relative to the frame image.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// OCRResult is a single recognized text region. On disk it is the
// 3-element array form ["text", confidence, [x, y, w, h]].
type OCRResult struct {
	Text       string
	Confidence float64
	Box        BoundingBox
}

func (r OCRResult) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		r.Text,
		r.Confidence,
		[4]float64{r.Box.X, r.Box.Y, r.Box.Width, r.Box.Height},
	})
}

func (r *OCRResult) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("ocr result: %w", err)
	}
	if len(tuple) != 3 {
		return fmt.Errorf("ocr result: expected 3 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &r.Text); err != nil {
		return fmt.Errorf("ocr result text: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &r.Confidence); err != nil {
		return fmt.Errorf("ocr result confidence: %w", err)
	}
	var box [4]float64
	if err := json.Unmarshal(tuple[2], &box); err != nil {
		return fmt.Errorf("ocr result bounding box: %w", err)
	}
	r.Box = BoundingBox{X: box[0], Y: box[1], Width: box[2], Height: box[3]}
	return nil
}
