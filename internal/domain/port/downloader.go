package port

import "context"

// ResolutionPolicy selects among available source-stream qualities. The
// two named policies pick the extremes; any other non-empty value is
// passed through to the download collaborator as an explicit format id.
type ResolutionPolicy string

const (
	ResolutionWorst ResolutionPolicy = "worst"
	ResolutionBest  ResolutionPolicy = "best"
)

// Format describes one downloadable stream of a video.
type Format struct {
	ID     string
	Ext    string
	Width  int
	Height int
	Note   string
}

// Downloader fetches a video's source file onto local disk. Download must
// leave the file at destPath on success.
type Downloader interface {
	Download(ctx context.Context, videoID string, policy ResolutionPolicy, destPath string) error
	ListFormats(ctx context.Context, videoID string) ([]Format, error)
}
