package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kj-9/video-ocr/internal/domain/entity"
)

const (
	// DefaultBaseURL is the YouTube Data API v3 endpoint.
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

	pageSize        = "50"
	maxErrorBody    = 4 << 10
	responseBodyCap = 4 << 20
)

// APIError is a non-2xx response from the playlist API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube api error: status %d: %s", e.StatusCode, e.Body)
}

// Client fetches playlist listings from the YouTube Data API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type playlistItemsPage struct {
	NextPageToken string                `json:"nextPageToken"`
	Items         []entity.PlaylistItem `json:"items"`
}

// FetchPlaylist pages through playlistItems.list until the API stops
// returning a next-page token and returns the concatenated items.
func (c *Client) FetchPlaylist(ctx context.Context, playlistID string) (*entity.Playlist, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("playlist id is empty")
	}

	playlist := &entity.Playlist{PlaylistID: playlistID}
	pageToken := ""
	pages := 0

	for {
		page, err := c.fetchPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}
		playlist.Items = append(playlist.Items, page.Items...)
		pages++

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	c.logger.Info("playlist fetched",
		zap.String("playlist_id", playlistID),
		zap.Int("items", len(playlist.Items)),
		zap.Int("pages", pages),
	)
	return playlist, nil
}

func (c *Client) fetchPage(ctx context.Context, playlistID, pageToken string) (*playlistItemsPage, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", pageSize)
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	endpoint := c.baseURL + "/playlistItems?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build playlist request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", playlistID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyCap))
	if err != nil {
		return nil, fmt.Errorf("read playlist response: %w", err)
	}

	var page playlistItemsPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parse playlist response: %w", err)
	}
	return &page, nil
}
