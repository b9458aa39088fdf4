package notes

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/notetube/notetube/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown renderer with GitHub flavored extensions
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Sanitizer policy applied to the rendered HTML
var policy = bluemonday.UGCPolicy()

// HTMLHandler serves a note's content rendered to sanitized HTML.
// Wrap this with middleware to allow only authenticated users.
func (s *Service) HTMLHandler(w http.ResponseWriter, r *http.Request) {

	currentUser := utils.GetUserFromContext(r)
	videoID := r.PathValue("video")

	note, err := s.notesRepo.GetNote(r.Context(), currentUser.ID, videoID)
	if errors.Is(err, pgx.ErrNoRows) {
		utils.JSONError(w, r, http.StatusNotFound)
		return
	}

	if err != nil {
		log.Printf("Could not get the note %s for user %d: %v", videoID, currentUser.ID, err)
		utils.JSONError(w, r, http.StatusInternalServerError)
		return
	}

	// Render the Markdown to HTML
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(note.Content), &buf); err != nil {
		log.Printf("Could not render the note %s to HTML: %v", videoID, err)
		utils.JSONError(w, r, http.StatusInternalServerError)
		return
	}

	// Sanitize before serving
	safeHTML := policy.SanitizeBytes(buf.Bytes())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(safeHTML); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write HTML to response on URI '%s': %v", r.RequestURI, err)
	}
}
