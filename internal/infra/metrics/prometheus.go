package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VideosProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_ocr_videos_processed_total",
			Help: "Videos processed by the pipeline, labeled by outcome.",
		},
		[]string{"status"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_ocr_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"stage"},
	)

	FramesExtractedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_ocr_frames_extracted_total",
			Help: "Frames written by the extraction stage.",
		},
	)

	OCRDetectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_ocr_ocr_detections_total",
			Help: "Text detections produced by the recognition stage.",
		},
	)

	ActiveWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_ocr_active_workers",
			Help: "Workers currently processing a video.",
		},
	)
)

// Pipeline stage labels.
const (
	StageDownload = "download"
	StageExtract  = "extract"
	StageOCR      = "ocr"
)

// Outcome labels for VideosProcessedTotal.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
