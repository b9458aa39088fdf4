package yt

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/notetube/notetube/internal/models"
)

// GetVideoDetails fetches public metadata for a video.
// The Data API is preferred, oEmbed serves as a keyless fallback.
func (s *Service) GetVideoDetails(ctx context.Context, videoID string) (*models.VideoDetails, error) {

	if s.youtube == nil {
		return s.getOEmbedDetails(ctx, videoID)
	}

	details, err := s.getAPIDetails(ctx, videoID)
	if err != nil {
		log.Printf("YouTube Data API lookup failed for '%s': %v", videoID, err)
		return s.getOEmbedDetails(ctx, videoID)
	}

	return details, nil
}

// getAPIDetails fetches video metadata via the YouTube Data API
func (s *Service) getAPIDetails(ctx context.Context, videoID string) (*models.VideoDetails, error) {

	part := []string{"snippet", "contentDetails"}
	response, err := s.youtube.Videos.List(part).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		return nil, errors.New("could not fetch a result from YouTube")
	}

	video := response.Items[0]
	details := &models.VideoDetails{
		VideoID:      videoID,
		Title:        video.Snippet.Title,
		ChannelTitle: video.Snippet.ChannelTitle,
		Duration:     video.ContentDetails.Duration,
	}

	// Parse the upload date into an object
	parsedTime, _ := time.Parse("2006-01-02T15:04:05Z", video.Snippet.PublishedAt)
	details.PublishedAt = parsedTime

	// Assign the biggest available thumbnail
	thumbs := video.Snippet.Thumbnails
	if thumbs != nil {
		switch {
		case thumbs.Maxres != nil:
			details.Thumbnail = thumbs.Maxres.Url
		case thumbs.Standard != nil:
			details.Thumbnail = thumbs.Standard.Url
		case thumbs.High != nil:
			details.Thumbnail = thumbs.High.Url
		case thumbs.Medium != nil:
			details.Thumbnail = thumbs.Medium.Url
		case thumbs.Default != nil:
			details.Thumbnail = thumbs.Default.Url
		}
	}

	return details, nil
}
