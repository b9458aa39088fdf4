package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/notetube/notetube/internal/config"
)

// Upstream serves different markup to unrecognized clients,
// so present ourselves as a common desktop browser.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_4) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/85.0.4183.83 Safari/537.36,gzip(gfe)"

const defaultWatchBase = "https://www.youtube.com"
const defaultTimeout = 8 * time.Second

// Client fetches and normalizes video transcripts. It holds no per request
// state, one Client serves any number of concurrent requests.
type Client struct {
	http      *http.Client
	watchBase string
}

// New creates a transcript client from the config. The watch page base URL
// is configurable so tests can point the client at a local server.
func New(cfg *config.Config) *Client {

	watchBase := defaultWatchBase
	timeout := defaultTimeout

	if cfg != nil {
		if cfg.WatchBaseURL != "" {
			watchBase = cfg.WatchBaseURL
		}
		if cfg.TranscriptTimeout > 0 {
			timeout = cfg.TranscriptTimeout
		}
	}

	return &Client{
		http:      &http.Client{Timeout: timeout},
		watchBase: watchBase,
	}
}

// Fetch runs the whole pipeline for one video: watch page fetch, manifest
// extraction, track selection, caption fetch and parsing. The language is
// optional; empty means the platform's default track. The entries come back
// in document order and the caller owns the slice.
func (c *Client) Fetch(ctx context.Context, videoID, language string) ([]Entry, error) {

	watchURL := fmt.Sprintf("%s/watch?v=%s", c.watchBase, videoID)
	body, _, err := c.get(ctx, watchURL, language)
	if err != nil {
		return nil, &UpstreamError{VideoID: videoID, Err: err}
	}

	tracks, err := extractCaptionTracks(videoID, body)
	if err != nil {
		return nil, err
	}

	track, err := selectTrack(videoID, language, tracks)
	if err != nil {
		return nil, err
	}

	captions, status, err := c.get(ctx, track.BaseURL, language)
	if err != nil {
		return nil, &UpstreamError{VideoID: videoID, Err: err}
	}

	if status != http.StatusOK {
		return nil, &NotAvailableError{VideoID: videoID}
	}

	// The negotiated language ends up on every entry. When no language was
	// requested the declared code of the default track is what was played.
	lang := language
	if lang == "" {
		lang = tracks[0].LanguageCode
	}

	return parseCaptions(captions, lang), nil
}

// get performs one outbound fetch with the browser headers.
// The inbound request context bounds it, so an aborted caller
// abandons the fetch promptly.
func (c *Client) get(ctx context.Context, url, language string) (string, int, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}

	req.Header.Set("User-Agent", userAgent)
	if language != "" {
		req.Header.Set("Accept-Language", language)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(body), resp.StatusCode, nil
}
