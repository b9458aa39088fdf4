package transcript

import (
	"fmt"
	"strings"
)

// The failure modes of the transcript pipeline form a closed set.
// Every error returned by this package is one of the types below,
// so callers can switch on them with errors.As and map each condition
// to a client-facing status.

// InvalidReferenceError means no video ID could be derived from the input.
type InvalidReferenceError struct {
	Input string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("unable to retrieve a video ID from %q", e.Input)
}

// RateLimitedError means the watch page served a captcha wall
// instead of the video page. Retrying only worsens the condition,
// so this package never retries it.
type RateLimitedError struct {
	VideoID string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf(
		"YouTube is receiving too many requests from this IP "+
			"and now requires solving a captcha to continue (%s)", e.VideoID,
	)
}

// UnavailableError means the video itself no longer exists or is private.
type UnavailableError struct {
	VideoID string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("the video is no longer available (%s)", e.VideoID)
}

// DisabledError means the page loaded but carries no usable captions block.
type DisabledError struct {
	VideoID string
}

func (e *DisabledError) Error() string {
	return fmt.Sprintf("transcript is disabled on this video (%s)", e.VideoID)
}

// NotAvailableError means the captions block exists but no transcript
// could be retrieved from it.
type NotAvailableError struct {
	VideoID string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("no transcripts are available for this video (%s)", e.VideoID)
}

// LanguageError means the requested language has no caption track.
// It carries the declared languages so a client can retry with one of them.
type LanguageError struct {
	VideoID   string
	Requested string
	Available []string
}

func (e *LanguageError) Error() string {
	return fmt.Sprintf(
		"no transcripts are available in %s for this video (%s); available languages: %s",
		e.Requested, e.VideoID, strings.Join(e.Available, ", "),
	)
}

// UpstreamError wraps a transport or decoding failure while talking
// to the upstream site (timeouts included).
type UpstreamError struct {
	VideoID string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream failure for video %s: %v", e.VideoID, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
