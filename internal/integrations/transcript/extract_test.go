package transcript

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testVideoID = "dQw4w9WgXcQ"

// watchPage builds a minimal watch page body around a captions fragment
func watchPage(captionsJSON string) string {
	return fmt.Sprintf(
		`<html><body><script>var ytInitialPlayerResponse = `+
			`{"playabilityStatus":{"status":"OK"},"captions":%s,"videoDetails":`+
			`{"videoId":%q}};</script></body></html>`,
		captionsJSON, testVideoID,
	)
}

func TestExtractCaptionTracks(t *testing.T) {

	tests := []struct {
		name    string
		body    string
		want    []CaptionTrack
		wantErr error
	}{
		{
			name:    "captcha wall",
			body:    `<html><div class="g-recaptcha"></div></html>`,
			wantErr: &RateLimitedError{},
		},
		{
			name:    "video gone",
			body:    `<html><body>This video is unavailable</body></html>`,
			wantErr: &UnavailableError{},
		},
		{
			name:    "page loads but no captions block",
			body:    `<html>{"playabilityStatus":{"status":"OK"}}</html>`,
			wantErr: &DisabledError{},
		},
		{
			name:    "captions fragment is not valid json",
			body:    watchPage(`{"playerCaptionsTracklistRenderer":`),
			wantErr: &DisabledError{},
		},
		{
			name:    "captions block without renderer",
			body:    watchPage(`{}`),
			wantErr: &DisabledError{},
		},
		{
			name:    "renderer without track list",
			body:    watchPage(`{"playerCaptionsTracklistRenderer":{}}`),
			wantErr: &DisabledError{},
		},
		{
			name:    "empty track list",
			body:    watchPage(`{"playerCaptionsTracklistRenderer":{"captionTracks":[]}}`),
			wantErr: &NotAvailableError{},
		},
		{
			name: "declared tracks in source order",
			body: watchPage(`{"playerCaptionsTracklistRenderer":{"captionTracks":[` +
				`{"baseUrl":"https://captions.test/fr","languageCode":"fr"},` +
				`{"baseUrl":"https://captions.test/en","languageCode":"en"}]}}`),
			want: []CaptionTrack{
				{BaseURL: "https://captions.test/fr", LanguageCode: "fr"},
				{BaseURL: "https://captions.test/en", LanguageCode: "en"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractCaptionTracks(testVideoID, tt.body)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("got nil error, want %T", tt.wantErr)
				}
				// Compare failure kinds, not messages
				target := tt.wantErr
				if !errorAs(err, target) {
					t.Fatalf("got error %T (%v), want %T", err, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("got unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tracks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// errorAs reports whether err matches the concrete type of target
func errorAs(err, target error) bool {
	switch target.(type) {
	case *RateLimitedError:
		var e *RateLimitedError
		return errors.As(err, &e)
	case *UnavailableError:
		var e *UnavailableError
		return errors.As(err, &e)
	case *DisabledError:
		var e *DisabledError
		return errors.As(err, &e)
	case *NotAvailableError:
		var e *NotAvailableError
		return errors.As(err, &e)
	case *LanguageError:
		var e *LanguageError
		return errors.As(err, &e)
	default:
		return false
	}
}

func TestSelectTrack(t *testing.T) {

	tracks := []CaptionTrack{
		{BaseURL: "https://captions.test/de", LanguageCode: "de"},
		{BaseURL: "https://captions.test/en", LanguageCode: "en"},
	}

	t.Run("no language picks the first declared track", func(t *testing.T) {
		track, err := selectTrack(testVideoID, "", tracks)
		if err != nil {
			t.Fatalf("got unexpected error: %v", err)
		}
		if diff := cmp.Diff(tracks[0], track); diff != "" {
			t.Errorf("track mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("requested language wins over order", func(t *testing.T) {
		track, err := selectTrack(testVideoID, "en", tracks)
		if err != nil {
			t.Fatalf("got unexpected error: %v", err)
		}
		if diff := cmp.Diff(tracks[1], track); diff != "" {
			t.Errorf("track mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing language enumerates the declared codes", func(t *testing.T) {
		_, err := selectTrack(testVideoID, "mk", tracks)

		var langErr *LanguageError
		if !errors.As(err, &langErr) {
			t.Fatalf("got error %T, want *LanguageError", err)
		}

		want := &LanguageError{
			VideoID:   testVideoID,
			Requested: "mk",
			Available: []string{"de", "en"},
		}

		if diff := cmp.Diff(want, langErr); diff != "" {
			t.Errorf("error mismatch (-want +got):\n%s", diff)
		}
	})
}
