package transcript

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/integrations/transcript"
)

const testVideoID = "dQw4w9WgXcQ"

// newTestService wires the handler to a fake upstream serving one English
// track with the given caption document
func newTestService(t *testing.T, captionDoc string) *Service {
	t.Helper()

	mux := http.NewServeMux()
	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	mux.HandleFunc("GET /watch", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w,
			`<html>{"playabilityStatus":{"status":"OK"},"captions":`+
				`{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
				`{"baseUrl":"%s/api/timedtext","languageCode":"en"}]}}`+
				`,"videoDetails":{"videoId":%q}}</html>`,
			upstream.URL, testVideoID,
		)
	})

	mux.HandleFunc("GET /api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, captionDoc)
	})

	client := transcript.New(&config.Config{
		WatchBaseURL:      upstream.URL,
		TranscriptTimeout: 2 * time.Second,
	})

	return New(client)
}

// do runs one request through the service and decodes the envelope
func do(t *testing.T, s *Service, req *http.Request) (*httptest.ResponseRecorder, *Response) {
	t.Helper()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp Response
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("response is not valid JSON: %v\n%s", err, rec.Body.String())
		}
	}

	return rec, &resp
}

func TestMethodGating(t *testing.T) {

	s := newTestService(t, "")

	tests := []struct {
		method         string
		wantHTTPStatus int
		wantCode       int
		wantMessage    string
	}{
		{http.MethodDelete, http.StatusBadRequest, StatusBadRequest, "Only GET and POST methods are supported"},
		{http.MethodPut, http.StatusBadRequest, StatusBadRequest, "Only GET and POST methods are supported"},
		{http.MethodPatch, http.StatusBadRequest, StatusBadRequest, "Only GET and POST methods are supported"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			rec, resp := do(t, s, req)

			if rec.Code != tt.wantHTTPStatus {
				t.Errorf("got HTTP status %d, want %d", rec.Code, tt.wantHTTPStatus)
			}
			if resp.StatusCode != tt.wantCode {
				t.Errorf("got status_code %d, want %d", resp.StatusCode, tt.wantCode)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("got message %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestOptionsPreflight(t *testing.T) {

	s := newTestService(t, "")

	// The preflight contract holds for any path
	for _, path := range []string{"/", "/anything", "/api/whatever"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusNoContent)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("got body %q, want empty", rec.Body.String())
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("got Access-Control-Allow-Origin %q, want *", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
				t.Errorf("got Access-Control-Allow-Methods %q", got)
			}
			if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type" {
				t.Errorf("got Access-Control-Allow-Headers %q", got)
			}
		})
	}
}

func TestCORSOnEveryResponse(t *testing.T) {

	s := newTestService(t, "")

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec, _ := do(t, s, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("error response lacks CORS headers, got origin %q", got)
	}
}

func TestMissingURL(t *testing.T) {

	s := newTestService(t, "")

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"empty POST object", httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))},
		{"GET without url", httptest.NewRequest(http.MethodGet, "/", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, s, tt.req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if resp.StatusCode != StatusMissingURL {
				t.Errorf("got status_code %d, want %d", resp.StatusCode, StatusMissingURL)
			}
			if resp.Message != "Missing required parameter: url" {
				t.Errorf("got message %q", resp.Message)
			}
		})
	}
}

func TestMalformedJSONBody(t *testing.T) {

	s := newTestService(t, "")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"url":`))
	rec, resp := do(t, s, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp.StatusCode != StatusBadRequest || resp.Message != "Invalid JSON body" {
		t.Errorf("got envelope %+v", resp)
	}
}

func TestUnextractableVideoID(t *testing.T) {

	s := newTestService(t, "")

	req := httptest.NewRequest(http.MethodGet, "/?url=https://example.com/nope", nil)
	rec, resp := do(t, s, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if resp.StatusCode != StatusBadVideoID {
		t.Errorf("got status_code %d, want %d", resp.StatusCode, StatusBadVideoID)
	}
}

func TestSuccessEnvelope(t *testing.T) {

	captionDoc := `<text start="0.0" dur="2.5">Hello</text>` +
		`<text start="2.5" dur="3.0">world</text>`
	s := newTestService(t, captionDoc)

	tests := []struct {
		name string
		req  *http.Request
	}{
		{
			"GET with url parameter",
			httptest.NewRequest(http.MethodGet,
				"/?url=https://www.youtube.com/watch?v="+testVideoID, nil),
		},
		{
			"POST with JSON body",
			httptest.NewRequest(http.MethodPost, "/",
				strings.NewReader(fmt.Sprintf(`{"url":%q}`, testVideoID))),
		},
		{
			"POST with languages array",
			httptest.NewRequest(http.MethodPost, "/",
				strings.NewReader(fmt.Sprintf(`{"url":%q,"languages":["en","de"]}`, testVideoID))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, s, tt.req)

			if rec.Code != http.StatusOK {
				t.Fatalf("got HTTP status %d, want %d; body: %s",
					rec.Code, http.StatusOK, rec.Body.String())
			}

			want := &Response{
				StatusCode: StatusSuccess,
				Message:    "Transcript retrieved successfully",
				VideoID:    testVideoID,
				Transcript: []transcript.Entry{
					{Text: "Hello", Offset: 0.0, Duration: 2.5, Lang: "en"},
					{Text: "world", Offset: 2.5, Duration: 3.0, Lang: "en"},
				},
				TranscriptText: "Hello world",
			}

			if diff := cmp.Diff(want, resp); diff != "" {
				t.Errorf("envelope mismatch (-want +got):\n%s", diff)
			}

			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("got Content-Type %q, want application/json", got)
			}
		})
	}
}

func TestJoinInvariant(t *testing.T) {

	// The transcript_text field is the entries' text joined by single
	// spaces, byte for byte
	captionDoc := `<text start="0" dur="1">one </text>` +
		`<text start="1" dur="1"> two</text>` +
		`<text start="2" dur="1">three</text>`
	s := newTestService(t, captionDoc)

	req := httptest.NewRequest(http.MethodGet, "/?url="+testVideoID, nil)
	_, resp := do(t, s, req)

	var texts []string
	for _, entry := range resp.Transcript {
		texts = append(texts, entry.Text)
	}

	if want := strings.Join(texts, " "); resp.TranscriptText != want {
		t.Errorf("transcript_text = %q, want %q", resp.TranscriptText, want)
	}
}

func TestEmptyTranscript(t *testing.T) {

	s := newTestService(t, `<transcript></transcript>`)

	req := httptest.NewRequest(http.MethodGet, "/?url="+testVideoID, nil)
	rec, resp := do(t, s, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusNotFound)
	}
	if resp.StatusCode != StatusNoTranscript {
		t.Errorf("got status_code %d, want %d", resp.StatusCode, StatusNoTranscript)
	}
	if resp.Message != "No transcript available for this video" {
		t.Errorf("got message %q", resp.Message)
	}
}

func TestLanguageMiss(t *testing.T) {

	s := newTestService(t, `<text start="0" dur="1">hi</text>`)

	req := httptest.NewRequest(http.MethodGet,
		"/?url="+testVideoID+"&languages=mk,sr", nil)
	rec, resp := do(t, s, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusNotFound)
	}
	if resp.StatusCode != StatusNoTranscript {
		t.Errorf("got status_code %d, want %d", resp.StatusCode, StatusNoTranscript)
	}

	// The message must list the declared languages for client-side retry
	if !strings.Contains(resp.Message, "en") ||
		!strings.Contains(resp.Message, "mk") ||
		!strings.Contains(resp.Message, testVideoID) {
		t.Errorf("message does not enumerate languages and video: %q", resp.Message)
	}
}

func TestCaptchaMapsToRetrievalFailure(t *testing.T) {

	upstream := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><form class="g-recaptcha"></form></html>`)
		},
	))
	t.Cleanup(upstream.Close)

	client := transcript.New(&config.Config{
		WatchBaseURL:      upstream.URL,
		TranscriptTimeout: 2 * time.Second,
	})
	s := New(client)

	req := httptest.NewRequest(http.MethodGet, "/?url="+testVideoID, nil)
	rec, resp := do(t, s, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusNotFound)
	}
	if resp.StatusCode != StatusNoTranscript {
		t.Errorf("got status_code %d, want %d", resp.StatusCode, StatusNoTranscript)
	}
	if !strings.Contains(resp.Error, "captcha") {
		t.Errorf("error detail does not mention the captcha: %q", resp.Error)
	}
}

func TestVideoUnavailable(t *testing.T) {

	upstream := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body>nothing here</body></html>`)
		},
	))
	t.Cleanup(upstream.Close)

	client := transcript.New(&config.Config{
		WatchBaseURL:      upstream.URL,
		TranscriptTimeout: 2 * time.Second,
	})
	s := New(client)

	req := httptest.NewRequest(http.MethodGet, "/?url="+testVideoID, nil)
	rec, resp := do(t, s, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got HTTP status %d, want %d", rec.Code, http.StatusNotFound)
	}
	if resp.StatusCode != StatusUnavailable {
		t.Errorf("got status_code %d, want %d", resp.StatusCode, StatusUnavailable)
	}
	if resp.Message != "Video not found or is unavailable" {
		t.Errorf("got message %q", resp.Message)
	}
}
