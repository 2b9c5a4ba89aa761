package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir(), zap.NewNop())
}

func TestPathsLayout(t *testing.T) {
	p := Paths{Root: "data"}

	assert.Equal(t, filepath.Join("data", "videos", "abc"), p.VideoDir("abc"))
	assert.Equal(t, filepath.Join("data", "videos", "abc", "video.mp4"), p.VideoFile("abc"))
	assert.Equal(t, filepath.Join("data", "videos", "abc", "frame"), p.FramesDir("abc"))
	assert.Equal(t, filepath.Join("data", "videos", "abc", "video.json"), p.RecordFile("abc"))
	assert.Equal(t, filepath.Join("data", "playlist.json"), p.PlaylistFile())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	video, err := entity.NewVideo("vid-1", 100)
	require.NoError(t, err)
	frame := entity.NewFrame("frame-0.png")
	frame.Results = []entity.OCRResult{
		{Text: "hello", Confidence: 0.9, Box: entity.BoundingBox{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}},
	}
	frame.OCRDone = true
	require.NoError(t, video.SetFrames([]entity.Frame{frame}))

	path, err := s.Save(video)
	require.NoError(t, err)
	assert.Equal(t, s.RecordPath("vid-1"), path)

	loaded, err := s.Load("vid-1")
	require.NoError(t, err)
	assert.Equal(t, video, loaded)
}

func TestLoadNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("missing")
	assert.ErrorIs(t, err, entity.ErrRecordNotFound)
}

func TestLoadCorruptJSON(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureDirs("vid-1"))
	require.NoError(t, os.WriteFile(s.RecordPath("vid-1"), []byte("{not json"), 0o644))

	_, err := s.Load("vid-1")
	assert.ErrorIs(t, err, entity.ErrRecordCorrupt)
}

func TestLoadInvalidRecord(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.EnsureDirs("vid-1"))
	require.NoError(t, os.WriteFile(s.RecordPath("vid-1"), []byte(`{"video_id":"","frame_rate":100}`), 0o644))

	_, err := s.Load("vid-1")
	assert.ErrorIs(t, err, entity.ErrRecordCorrupt)
}

func TestSaveIsAtomicOverwrite(t *testing.T) {
	s := newTestStore(t)

	video, err := entity.NewVideo("vid-1", 100)
	require.NoError(t, err)
	_, err = s.Save(video)
	require.NoError(t, err)

	require.NoError(t, video.SetFrames([]entity.Frame{entity.NewFrame("frame-0.png")}))
	_, err = s.Save(video)
	require.NoError(t, err)

	loaded, err := s.Load("vid-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Frames, 1)

	entries, err := os.ReadDir(filepath.Dir(s.RecordPath("vid-1")))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".vocr-tmp-")
	}
}

func TestSaveRejectsInvalidVideo(t *testing.T) {
	s := newTestStore(t)

	video := &entity.Video{VideoID: "vid-1", FrameRate: 100, Frames: []entity.Frame{
		entity.NewFrame("frame-0.png"),
		entity.NewFrame("frame-0.png"),
	}}
	_, err := s.Save(video)
	assert.ErrorIs(t, err, entity.ErrDuplicateFrameName)
}

func TestEnsureDirsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.EnsureDirs("vid-1"))
	require.NoError(t, s.EnsureDirs("vid-1"))

	info, err := os.Stat(s.FramesDir("vid-1"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPlaylistRoundTrip(t *testing.T) {
	s := newTestStore(t)

	playlist := &entity.Playlist{
		PlaylistID: "pl-1",
		Items: []entity.PlaylistItem{
			{ContentDetails: entity.PlaylistItemContentDetails{VideoID: "vid-1"}},
			{ContentDetails: entity.PlaylistItemContentDetails{VideoID: "vid-2"}},
		},
	}
	path, err := s.SavePlaylist(playlist)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.paths.Root, "playlist.json"), path)

	loaded, err := s.LoadPlaylist()
	require.NoError(t, err)
	assert.Equal(t, playlist, loaded)
	assert.Equal(t, []string{"vid-1", "vid-2"}, loaded.ToVideoIDs())
}
