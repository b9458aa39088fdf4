package transcript

import (
	"encoding/json"
	"strings"
)

// The watch page is an HTML document with the player configuration inlined
// as JSON inside a script tag. The captions block is located by string
// slicing between two markers. These markers are the single point of
// breakage if the upstream markup changes, keep them in one place.
const (
	captionsMarker     = `"captions":`
	videoDetailsMarker = `,"videoDetails`
	captchaMarker      = `class="g-recaptcha"`
	playabilityMarker  = `"playabilityStatus":`
)

// CaptionTrack describes one available caption track
// as declared in the watch page manifest.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

type captionsBlock struct {
	Renderer *trackListRenderer `json:"playerCaptionsTracklistRenderer"`
}

// CaptionTracks is a pointer so an absent key can be told apart
// from a declared but empty track list.
type trackListRenderer struct {
	CaptionTracks *[]CaptionTrack `json:"captionTracks"`
}

// extractCaptionTracks locates the captions JSON fragment in the watch page
// body and returns the declared tracks in source order. The first track is
// the platform's default.
func extractCaptionTracks(videoID, body string) ([]CaptionTrack, error) {

	_, after, found := strings.Cut(body, captionsMarker)
	if !found {
		if strings.Contains(body, captchaMarker) {
			return nil, &RateLimitedError{VideoID: videoID}
		}
		if !strings.Contains(body, playabilityMarker) {
			return nil, &UnavailableError{VideoID: videoID}
		}
		return nil, &DisabledError{VideoID: videoID}
	}

	// The fragment ends where the adjacent videoDetails block begins
	fragment, _, found := strings.Cut(after, videoDetailsMarker)
	if !found {
		return nil, &DisabledError{VideoID: videoID}
	}

	var block captionsBlock
	fragment = strings.Replace(fragment, "\n", "", 1)
	if err := json.Unmarshal([]byte(fragment), &block); err != nil {
		return nil, &DisabledError{VideoID: videoID}
	}

	if block.Renderer == nil || block.Renderer.CaptionTracks == nil {
		return nil, &DisabledError{VideoID: videoID}
	}

	tracks := *block.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, &NotAvailableError{VideoID: videoID}
	}

	return tracks, nil
}

// selectTrack negotiates the caption track. With no language requested the
// first declared track wins, whatever its language. A requested language
// must match a declared code exactly or the negotiation fails with the
// declared languages attached.
func selectTrack(videoID, language string, tracks []CaptionTrack) (CaptionTrack, error) {

	if language == "" {
		return tracks[0], nil
	}

	for _, track := range tracks {
		if track.LanguageCode == language {
			return track, nil
		}
	}

	available := make([]string, len(tracks))
	for i, track := range tracks {
		available[i] = track.LanguageCode
	}

	return CaptionTrack{}, &LanguageError{
		VideoID:   videoID,
		Requested: language,
		Available: available,
	}
}
