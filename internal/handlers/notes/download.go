package notes

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/notetube/notetube/internal/utils"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
)

// DownloadHandler serves a note's content as a Markdown attachment.
// Wrap this with middleware to allow only authenticated users.
func (s *Service) DownloadHandler(w http.ResponseWriter, r *http.Request) {

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

	// Derive a safe filename from the note title
	filename := slug.Make(note.Title)
	if filename == "" {
		filename = note.VideoID
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.md"`, filename),
	)

	document := fmt.Sprintf("# %s\n\n%s\n", note.Title, note.Content)
	if _, err := w.Write([]byte(document)); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write Markdown to response on URI '%s': %v", r.RequestURI, err)
	}
}
