package transcript

import "regexp"

// Video IDs are opaque 11 character tokens. The patterns cover the known
// URL shapes; the ID capture stops at the next '&', '?' or '/'.
// Order matters, the first match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&?/]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&?/]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&?/]+)`),
	regexp.MustCompile(`youtube\.com/.*[?&]v=([^&?/]+)`),
}

// ExtractVideoID derives the video ID from a URL or a bare identifier.
// An input of exactly 11 characters is taken to already be the ID.
// This runs on every request before any network I/O.
func ExtractVideoID(ref string) (string, error) {

	if len(ref) == 11 {
		return ref, nil
	}

	for _, pattern := range videoIDPatterns {
		if match := pattern.FindStringSubmatch(ref); match != nil {
			return match[1], nil
		}
	}

	return "", &InvalidReferenceError{Input: ref}
}
