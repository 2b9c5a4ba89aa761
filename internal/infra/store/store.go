package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
)

const (
	videoFileName  = "video.mp4"
	recordFileName = "video.json"
	framesDirName  = "frame"
)

// Paths derives the canonical on-disk layout for a data root. Derivation
// is pure; nothing here touches the filesystem.
type Paths struct {
	Root string
}

func (p Paths) VideoDir(videoID string) string {
	return filepath.Join(p.Root, "videos", videoID)
}

func (p Paths) VideoFile(videoID string) string {
	return filepath.Join(p.VideoDir(videoID), videoFileName)
}

func (p Paths) FramesDir(videoID string) string {
	return filepath.Join(p.VideoDir(videoID), framesDirName)
}

func (p Paths) RecordFile(videoID string) string {
	return filepath.Join(p.VideoDir(videoID), recordFileName)
}

func (p Paths) PlaylistFile() string {
	return filepath.Join(p.Root, "playlist.json")
}

// Store reads and writes per-video JSON records under a single data root.
// Each video owns a disjoint subtree, so concurrent workers on distinct
// video ids never contend.
type Store struct {
	paths  Paths
	logger *zap.Logger
}

func New(root string, logger *zap.Logger) *Store {
	return &Store{paths: Paths{Root: root}, logger: logger}
}

func (s *Store) VideoPath(videoID string) string  { return s.paths.VideoFile(videoID) }
func (s *Store) FramesDir(videoID string) string  { return s.paths.FramesDir(videoID) }
func (s *Store) RecordPath(videoID string) string { return s.paths.RecordFile(videoID) }

// EnsureDirs creates the video's directory subtree. Pre-existing
// directories are fine.
func (s *Store) EnsureDirs(videoID string) error {
	for _, dir := range []string{s.paths.VideoDir(videoID), s.paths.FramesDir(videoID)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads and validates the persisted record for a video id.
func (s *Store) Load(videoID string) (*entity.Video, error) {
	path := s.paths.RecordFile(videoID)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entity.ErrRecordNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrRecordCorrupt, path, err)
	}

	var video entity.Video
	if err := json.Unmarshal(data, &video); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", entity.ErrRecordCorrupt, path, err)
	}
	if err := video.Validate(); err != nil {
		return nil, fmt.Errorf("%w: validate %s: %v", entity.ErrRecordCorrupt, path, err)
	}
	if video.Frames == nil {
		video.Frames = []entity.Frame{}
	}
	return &video, nil
}

// Save atomically overwrites the video's record and returns the path
// written.
func (s *Store) Save(video *entity.Video) (string, error) {
	if err := video.Validate(); err != nil {
		return "", err
	}

	path := s.paths.RecordFile(video.VideoID)
	if err := writeJSON(path, video); err != nil {
		return "", err
	}

	s.logger.Debug("saved video record",
		zap.String("video_id", video.VideoID),
		zap.String("path", path),
		zap.Int("frames", len(video.Frames)),
	)
	return path, nil
}

// SavePlaylist writes the playlist listing to its canonical path at the
// data root.
func (s *Store) SavePlaylist(playlist *entity.Playlist) (string, error) {
	path := s.paths.PlaylistFile()
	if err := writeJSON(path, playlist); err != nil {
		return "", err
	}
	return path, nil
}

// LoadPlaylist reads the playlist listing saved by a previous run.
func (s *Store) LoadPlaylist() (*entity.Playlist, error) {
	path := s.paths.PlaylistFile()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist %s: %w", path, err)
	}
	var playlist entity.Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, fmt.Errorf("parse playlist %s: %w", path, err)
	}
	return &playlist, nil
}

// writeJSON writes v as indented JSON via a temp file and rename, so a
// crash mid-write never leaves a truncated record behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".vocr-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	return nil
}
