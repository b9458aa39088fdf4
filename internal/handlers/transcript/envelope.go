package transcript

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/notetube/notetube/internal/integrations/transcript"
)

// Service status codes carried in the envelope's status_code field.
// These are distinct from the HTTP status that accompanies them.
const (
	StatusSuccess      = 100 // transcript retrieved
	StatusBadVideoID   = 102 // identifier unextractable
	StatusUnavailable  = 103 // video not found or unavailable
	StatusNoTranscript = 104 // no transcript / retrieval error
	StatusMissingURL   = 107 // missing url parameter
	StatusUnknown      = 110 // unhandled internal error
	StatusBadRequest   = 400 // unsupported method or bad JSON
)

// Response is the fixed envelope returned for every request,
// success or failure.
type Response struct {
	StatusCode     int                `json:"status_code"`
	Message        string             `json:"message"`
	VideoID        string             `json:"video_id,omitempty"`
	Transcript     []transcript.Entry `json:"transcript,omitempty"`
	TranscriptText string             `json:"transcript_text,omitempty"`
	Error          string             `json:"error,omitempty"`
}

// writeCORS attaches the permissive CORS headers every response carries
func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeJSON writes the envelope with the given HTTP status
func writeJSON(w http.ResponseWriter, httpStatus int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to write transcript response: %v", err)
	}
}

// writeFailure maps a pipeline failure onto the public vocabulary. The
// internal taxonomy is finer than the public codes; it is preserved in the
// envelope's error field for diagnostics rather than widening the contract.
func writeFailure(w http.ResponseWriter, videoID string, err error) {

	resp := &Response{
		StatusCode: StatusNoTranscript,
		Message:    "Error retrieving transcript",
		VideoID:    videoID,
		Error:      err.Error(),
	}

	httpStatus := http.StatusNotFound

	switch err.(type) {
	case *transcript.UnavailableError:
		resp.StatusCode = StatusUnavailable
		resp.Message = "Video not found or is unavailable"
	case *transcript.LanguageError:
		// Same public code, but the message must surface the available
		// languages so a client can retry with one of them
		resp.Message = err.Error()
	case *transcript.RateLimitedError,
		*transcript.DisabledError,
		*transcript.NotAvailableError,
		*transcript.UpstreamError:
		// All collapse to the generic retrieval failure code
	default:
		resp.StatusCode = StatusUnknown
		resp.Message = "An unknown error occurred"
		httpStatus = http.StatusInternalServerError
	}

	writeJSON(w, httpStatus, resp)
}
