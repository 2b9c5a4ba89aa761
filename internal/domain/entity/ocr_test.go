package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRResultMarshalTupleForm(t *testing.T) {
	r := OCRResult{
		Text:       "text",
		Confidence: 0.5,
		Box:        BoundingBox{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `["text",0.5,[0.1,0.2,0.3,0.4]]`, string(data))
}

func TestOCRResultRoundTrip(t *testing.T) {
	orig := OCRResult{
		Text:       "こんにちは",
		Confidence: 0.875,
		Box:        BoundingBox{X: 0.01, Y: 0.99, Width: 0.25, Height: 0.05},
	}
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got OCRResult
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, got)
}

func TestOCRResultUnmarshalRejectsWrongShape(t *testing.T) {
	cases := []string{
		`["text",0.5]`,
		`["text",0.5,[0.1,0.2,0.3,0.4],"extra"]`,
		`{"text":"x"}`,
		`["text","high",[0.1,0.2,0.3,0.4]]`,
		`["text",0.5,"box"]`,
	}
	for _, c := range cases {
		var r OCRResult
		assert.Error(t, json.Unmarshal([]byte(c), &r), c)
	}
}

func TestFrameSerialization(t *testing.T) {
	f := NewFrame("frame-0.png")
	f.Results = []OCRResult{{Text: "a", Confidence: 1, Box: BoundingBox{}}}
	f.OCRDone = true

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"file_name":"frame-0.png","results":[["a",1,[0,0,0,0]]],"ocr_done":true}`, string(data))

	var got Frame
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, f, got)
}

func TestFrameOmitsOCRDoneWhenFalse(t *testing.T) {
	data, err := json.Marshal(NewFrame("frame-0.png"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"file_name":"frame-0.png","results":[]}`, string(data))
}
