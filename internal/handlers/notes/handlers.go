package notes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/notetube/notetube/internal/drivers/rdb"
	"github.com/notetube/notetube/internal/integrations/gemini"
	"github.com/notetube/notetube/internal/integrations/transcript"
	"github.com/notetube/notetube/internal/models"
	"github.com/notetube/notetube/internal/utils"

	"github.com/jackc/pgx/v5"
)

const videoCacheKey = "video:%s"

type generateBody struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

// GenerateHandler runs the full pipeline for a video:
// transcript, metadata, model generation and storage.
// Wrap this with middleware to allow only authenticated users.
func (s *Service) GenerateHandler(w http.ResponseWriter, r *http.Request) {

	currentUser := utils.GetUserFromContext(r)

	// Decode JSON body
	var body generateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Printf("Could not decode the JSON body on path: %s", r.URL.Path)
		utils.JSONError(w, r, http.StatusBadRequest)
		return
	}

	if body.URL == "" {
		utils.JSONError(w, r, http.StatusBadRequest)
		return
	}

	// Resolve the video ID from the reference
	videoID, err := transcript.ExtractVideoID(body.URL)
	if err != nil {
		utils.JSONError(w, r, http.StatusBadRequest)
		return
	}

	// Don't bother fetching anything if the daily model quota is spent
	if s.gemini.Exhausted(r.Context()) {
		utils.JSONError(w, r, http.StatusTooManyRequests)
		return
	}

	// Get the video metadata, cached per video
	cacheKey := fmt.Sprintf(videoCacheKey, videoID)
	details, err := rdb.GetCachedData(
		r.Context(), s.rdb, cacheKey, 24*time.Hour,
		func() (models.VideoDetails, error) {
			details, err := s.yt.GetVideoDetails(r.Context(), videoID)
			if err != nil {
				return models.VideoDetails{}, err
			}
			return *details, nil
		},
	)
	if err != nil {
		log.Printf("Could not fetch metadata for video %s: %v", videoID, err)
		utils.JSONError(w, r, http.StatusNotFound)
		return
	}

	// Fetch the transcript
	entries, err := s.transcript.Fetch(r.Context(), videoID, body.Language)
	if err != nil {
		s.transcriptError(w, r, videoID, err)
		return
	}

	text := transcript.JoinText(entries)
	if text == "" {
		log.Printf("No transcript available for video %s", videoID)
		utils.JSONError(w, r, http.StatusNotFound)
		return
	}

	// Generate the notes
	generated, err := s.gemini.GenerateNotes(r.Context(), &details, text)
	if err != nil {
		s.generationError(w, r, videoID, err)
		return
	}

	// Compose the stored Markdown document
	content := fmt.Sprintf("%s\n\n%s", generated.Summary, generated.Notes)

	title := generated.Title
	if title == "" {
		title = details.Title
	}

	note := &models.Note{
		UserID:       currentUser.ID,
		VideoID:      videoID,
		Title:        title,
		ChannelTitle: details.ChannelTitle,
		Thumbnail:    details.Thumbnail,
		Transcript:   text,
		Content:      content,
	}

	if note.ID, err = s.notesRepo.UpsertNote(r.Context(), note); err != nil {
		log.Printf("User %d could not save notes for video %s: %v", currentUser.ID, videoID, err)
		utils.JSONError(w, r, http.StatusInternalServerError)
		return
	}

	// Invalidate the cached history pages for this user
	s.invalidateHistory(r, currentUser.ID)

	utils.WriteJSON(w, r, note)
}

// ListNotesHandler serves a page of the user's notes history.
// Wrap this with middleware to allow only authenticated users.
func (s *Service) ListNotesHandler(w http.ResponseWriter, r *http.Request) {

	currentUser := utils.GetUserFromContext(r)
	page := utils.GetPageNum(r)

	// Get the notes page, cached per user and page
	cacheKey := fmt.Sprintf("notes:%d:%d", currentUser.ID, page)
	notes, err := rdb.GetCachedData(
		r.Context(), s.rdb, cacheKey, 5*time.Minute,
		func() (models.Notes, error) {
			notes, err := s.notesRepo.GetUserNotes(r.Context(), currentUser.ID, page)
			if err != nil {
				return models.Notes{}, err
			}
			return *notes, nil
		},
	)
	if err != nil {
		log.Printf("Could not list notes for user %d: %v", currentUser.ID, err)
		utils.JSONError(w, r, http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"notes": notes,
		"pagination": models.CalculatePagination(
			page, s.config.NotesPerPage, notes.TotalNum,
		),
	}

	utils.WriteJSON(w, r, data)
}

// GetNoteHandler serves a single note with its content.
// Wrap this with middleware to allow only authenticated users.
func (s *Service) GetNoteHandler(w http.ResponseWriter, r *http.Request) {

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

	utils.WriteJSON(w, r, note)
}

type updateBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteHandler saves the user's edits to a stored note.
// Wrap this with middleware to allow only authenticated users.
func (s *Service) UpdateNoteHandler(w http.ResponseWriter, r *http.Request) {

	currentUser := utils.GetUserFromContext(r)
	videoID := r.PathValue("video")

	var body updateBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Printf("Could not decode the JSON body on path: %s", r.URL.Path)
		utils.JSONError(w, r, http.StatusBadRequest)
		return
	}

	if body.Content == "" {
		utils.JSONError(w, r, http.StatusBadRequest)
		return
	}

	// Only existing notes can be edited
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

	if body.Title != "" {
		note.Title = body.Title
	}
	note.Content = body.Content

	if _, err := s.notesRepo.UpsertNote(r.Context(), note); err != nil {
		log.Printf("User %d could not update the note %s: %v", currentUser.ID, videoID, err)
		utils.JSONError(w, r, http.StatusInternalServerError)
		return
	}

	s.invalidateHistory(r, currentUser.ID)
	utils.WriteJSON(w, r, note)
}

// DeleteNoteHandler deletes a single note.
// Wrap this with middleware to allow only authenticated users.
func (s *Service) DeleteNoteHandler(w http.ResponseWriter, r *http.Request) {

	currentUser := utils.GetUserFromContext(r)
	videoID := r.PathValue("video")

	rowsAffected, err := s.notesRepo.DeleteNote(r.Context(), currentUser.ID, videoID)
	if err != nil {
		log.Printf("User %d could not delete the note %s: %v", currentUser.ID, videoID, err)
		utils.JSONError(w, r, http.StatusInternalServerError)
		return
	}

	if rowsAffected == 0 {
		log.Printf("No such note %s to delete.", videoID)
		utils.JSONError(w, r, http.StatusNotFound)
		return
	}

	s.invalidateHistory(r, currentUser.ID)
	w.WriteHeader(http.StatusNoContent)
}

// transcriptError maps a transcript retrieval error to an HTTP status
func (s *Service) transcriptError(w http.ResponseWriter, r *http.Request, videoID string, err error) {

	log.Printf("Could not fetch transcript for video %s: %v", videoID, err)

	var (
		invalidErr      *transcript.InvalidReferenceError
		unavailableErr  *transcript.UnavailableError
		disabledErr     *transcript.DisabledError
		notAvailableErr *transcript.NotAvailableError
		languageErr     *transcript.LanguageError
		rateLimitedErr  *transcript.RateLimitedError
	)

	switch {
	case errors.As(err, &invalidErr):
		utils.JSONError(w, r, http.StatusBadRequest)
	case errors.As(err, &unavailableErr),
		errors.As(err, &disabledErr),
		errors.As(err, &notAvailableErr),
		errors.As(err, &languageErr):
		utils.JSONError(w, r, http.StatusNotFound)
	case errors.As(err, &rateLimitedErr):
		utils.JSONError(w, r, http.StatusTooManyRequests)
	default:
		utils.JSONError(w, r, http.StatusBadGateway)
	}
}

// generationError maps a model generation error to an HTTP status
func (s *Service) generationError(w http.ResponseWriter, r *http.Request, videoID string, err error) {

	log.Printf("Could not generate notes for video %s: %v", videoID, err)

	var blockedErr *gemini.BlockedErr

	switch {
	case errors.Is(err, gemini.ErrDailyLimitReached),
		errors.Is(err, gemini.ErrMinuteLimitReached):
		utils.JSONError(w, r, http.StatusTooManyRequests)
	case errors.As(err, &blockedErr):
		utils.JSONError(w, r, http.StatusUnprocessableEntity)
	default:
		utils.JSONError(w, r, http.StatusBadGateway)
	}
}

// invalidateHistory clears the cached history pages for a user
func (s *Service) invalidateHistory(r *http.Request, userID int) {

	keys := make([]string, 0, s.config.MaxPageSize)
	for page := 1; page <= s.config.MaxPageSize; page++ {
		keys = append(keys, fmt.Sprintf("notes:%d:%d", userID, page))
	}

	if err := s.rdb.Delete(r.Context(), keys...); err != nil {
		log.Printf("Could not invalidate the notes cache for user %d: %v", userID, err)
	}
}
