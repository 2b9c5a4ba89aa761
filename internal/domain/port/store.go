package port

import "github.com/kj-9/video-ocr/internal/domain/entity"

// VideoStore persists per-video records and derives the canonical on-disk
// layout for a video id under the configured data root.
type VideoStore interface {
	// Load fails with entity.ErrRecordNotFound when no record exists and
	// entity.ErrRecordCorrupt when the record cannot be parsed or fails
	// schema validation.
	Load(videoID string) (*entity.Video, error)
	// Save overwrites the record atomically and returns the path written.
	Save(video *entity.Video) (string, error)
	// EnsureDirs creates the video's storage subtree; idempotent.
	EnsureDirs(videoID string) error

	VideoPath(videoID string) string
	FramesDir(videoID string) string
	RecordPath(videoID string) string
}
