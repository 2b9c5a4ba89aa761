package port

import (
	"context"

	"github.com/kj-9/video-ocr/internal/domain/entity"
)

// PlaylistSource lists the videos of a playlist. The core consumes the
// result only through Playlist.ToVideoIDs.
type PlaylistSource interface {
	FetchPlaylist(ctx context.Context, playlistID string) (*entity.Playlist, error)
}
