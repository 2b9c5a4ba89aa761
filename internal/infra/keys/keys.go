package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	fileName = ".video-ocr.json"
	noteKey  = "// Note"
	noteText = "This file stores secret API credentials. Do not share!"

	// YouTubeAPIKey is the credential name used for playlist fetches.
	YouTubeAPIKey = "YOUTUBE_API_KEY"

	userPathEnv = "VIDEO_OCR_USER_PATH"
)

// UserDir returns the directory holding the credential file. It honors
// VIDEO_OCR_USER_PATH and falls back to the user's home directory. The
// directory is created if absent.
func UserDir() (string, error) {
	dir := os.Getenv(userPathEnv)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = home
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create user directory %s: %w", dir, err)
	}
	return dir, nil
}

// Path returns the credential file location.
func Path() (string, error) {
	dir, err := UserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Lookup resolves a credential: the credential file wins, then the
// environment variable of the same name. An empty string means the
// credential is unset.
func Lookup(name string) (string, error) {
	creds, _, err := readFile()
	if err != nil {
		return "", err
	}
	if v := creds[name]; v != "" {
		return v, nil
	}
	return os.Getenv(name), nil
}

// Set stores a credential in the file, creating or reseeding it as
// needed. Existing credentials are preserved.
func Set(name, value string) (string, error) {
	creds, path, err := readFile()
	if err != nil {
		return "", err
	}

	creds[noteKey] = noteText
	creds[name] = value

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal credentials: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write credentials %s: %w", path, err)
	}
	return path, nil
}

// readFile loads the credential file, tolerating a missing or corrupt
// file by starting from an empty map.
func readFile() (map[string]string, string, error) {
	path, err := Path()
	if err != nil {
		return nil, "", err
	}

	creds := map[string]string{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return creds, path, nil
		}
		return nil, "", fmt.Errorf("read credentials %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupt credential files are reset rather than blocking.
		return map[string]string{}, path, nil
	}
	return creds, path, nil
}
