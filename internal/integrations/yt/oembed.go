package yt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/notetube/notetube/internal/models"
)

type oEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// getOEmbedDetails fetches video metadata via the public oEmbed endpoint
func (s *Service) getOEmbedDetails(ctx context.Context, videoID string) (*models.VideoDetails, error) {

	watchURL := fmt.Sprintf("%s/watch?v=%s", s.config.WatchBaseURL, videoID)
	endpoint := fmt.Sprintf(
		"%s/oembed?url=%s&format=json",
		s.config.WatchBaseURL,
		url.QueryEscape(watchURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oEmbed request failed for '%s': %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oEmbed returned status %d for '%s'", resp.StatusCode, videoID)
	}

	var oEmbed oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oEmbed); err != nil {
		return nil, fmt.Errorf("failed to decode oEmbed response for '%s': %w", videoID, err)
	}

	return &models.VideoDetails{
		VideoID:      videoID,
		Title:        oEmbed.Title,
		ChannelTitle: oEmbed.AuthorName,
		Thumbnail:    oEmbed.ThumbnailURL,
	}, nil
}
