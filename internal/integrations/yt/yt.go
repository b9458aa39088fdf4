package yt

import (
	"context"

	"github.com/notetube/notetube/internal/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type Service struct {
	config  *config.Config
	youtube *youtube.Service
}

// Create new YouTube service.
// Without an API key the service falls back to oEmbed lookups.
func New(ctx context.Context, config *config.Config) (*Service, error) {

	if config.YouTubeAPIKey == "" {
		return &Service{config: config}, nil
	}

	var co option.ClientOption = option.WithAPIKey(config.YouTubeAPIKey)
	youtube, err := youtube.NewService(ctx, co)

	return &Service{
		config:  config,
		youtube: youtube,
	}, err
}
