package entity

// PlaylistItemSnippet carries the display fields of a playlist entry the
// pipeline keeps for inspection. Only ContentDetails crosses into the core.
type PlaylistItemSnippet struct {
	Title       string `json:"title,omitempty"`
	Position    int    `json:"position,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// PlaylistItemContentDetails holds the video reference of a playlist entry.
type PlaylistItemContentDetails struct {
	VideoID string `json:"videoId"`
}

// PlaylistItem is one entry of a listed playlist as returned by the
// playlist collaborator.
type PlaylistItem struct {
	Snippet        PlaylistItemSnippet        `json:"snippet"`
	ContentDetails PlaylistItemContentDetails `json:"contentDetails"`
}

// Playlist is the fetched listing of a playlist, persisted at the data
// root for reuse across batch runs.
type Playlist struct {
	PlaylistID string         `json:"playlist_id"`
	Items      []PlaylistItem `json:"items"`
}

// ToVideoIDs projects the ordered video ids out of the playlist. Entries
// without a video reference are skipped.
func (p *Playlist) ToVideoIDs() []string {
	ids := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		if id := item.ContentDetails.VideoID; id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
