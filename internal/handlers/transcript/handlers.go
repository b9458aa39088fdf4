package transcript

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/notetube/notetube/internal/integrations/transcript"
)

// request carries the parameters accepted on both methods. The languages
// field of a POST body may be a single string or an array of strings.
type request struct {
	URL       string
	Languages []string
}

type postBody struct {
	URL       string          `json:"url"`
	Languages json.RawMessage `json:"languages"`
}

// ServeHTTP handles any path with the same contract: OPTIONS preflight,
// GET with query parameters, POST with a JSON body. Anything else is
// rejected with the generic 400 envelope.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	writeCORS(w)

	// Anything not anticipated below becomes the unknown-error envelope
	// instead of crashing the request
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Panic in %s %s: %#v", r.Method, r.URL.Path, rec)
			writeJSON(w, http.StatusInternalServerError, &Response{
				StatusCode: StatusUnknown,
				Message:    "An unknown error occurred",
			})
		}
	}()

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet, http.MethodPost:
	default:
		writeJSON(w, http.StatusBadRequest, &Response{
			StatusCode: StatusBadRequest,
			Message:    "Only GET and POST methods are supported",
		})
		return
	}

	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}

	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, &Response{
			StatusCode: StatusMissingURL,
			Message:    "Missing required parameter: url",
		})
		return
	}

	videoID, err := transcript.ExtractVideoID(req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{
			StatusCode: StatusBadVideoID,
			Message:    "Unable to extract video ID from URL",
		})
		return
	}

	// A single preferred language; the first one when several are given
	var language string
	if len(req.Languages) > 0 {
		language = req.Languages[0]
	}

	entries, err := s.client.Fetch(r.Context(), videoID, language)
	if err != nil {
		writeFailure(w, videoID, err)
		return
	}

	if len(entries) == 0 {
		writeJSON(w, http.StatusNotFound, &Response{
			StatusCode: StatusNoTranscript,
			Message:    "No transcript available for this video",
			VideoID:    videoID,
		})
		return
	}

	writeJSON(w, http.StatusOK, &Response{
		StatusCode:     StatusSuccess,
		Message:        "Transcript retrieved successfully",
		VideoID:        videoID,
		Transcript:     entries,
		TranscriptText: transcript.JoinText(entries),
	})
}

// parseRequest reads the url and languages parameters from either the
// query string (GET) or the JSON body (POST). A malformed body is reported
// to the client and ok comes back false.
func (s *Service) parseRequest(w http.ResponseWriter, r *http.Request) (req request, ok bool) {

	if r.Method == http.MethodGet {
		params := r.URL.Query()
		req.URL = params.Get("url")
		if langs := params.Get("languages"); langs != "" {
			for _, lang := range strings.Split(langs, ",") {
				req.Languages = append(req.Languages, strings.TrimSpace(lang))
			}
		}
		return req, true
	}

	var body postBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{
			StatusCode: StatusBadRequest,
			Message:    "Invalid JSON body",
		})
		return req, false
	}

	req.URL = body.URL
	if langs, err := parseLanguages(body.Languages); err == nil {
		req.Languages = langs
	}

	return req, true
}

// parseLanguages accepts either a JSON string or an array of strings
func parseLanguages(raw json.RawMessage) ([]string, error) {

	if len(raw) == 0 {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}

	return nil, errors.New("languages must be a string or an array of strings")
}
