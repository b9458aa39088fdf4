package notes

import (
	"context"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/drivers/database"
	"github.com/notetube/notetube/internal/models"
	"github.com/notetube/notetube/internal/utils"
)

type Repository struct {
	db     database.Service
	config *config.Config
}

func New(db database.Service, config *config.Config) *Repository {
	return &Repository{
		db:     db,
		config: config,
	}
}

// Check if the user already has notes for this video
func (r *Repository) NoteExists(ctx context.Context, userID int, videoID string) bool {
	var result int
	err := r.db.QueryRow(ctx, noteExistsQuery, userID, videoID).Scan(&result)
	return err == nil
}

// Get a single note, transcript and content included
func (r *Repository) GetNote(ctx context.Context, userID int, videoID string) (*models.Note, error) {

	var note models.Note
	note.UserID = userID

	var ( // Nullable strings in the DB need pointers for the scan
		channelTitle *string
		thumbnail    *string
		transcript   *string
	)

	err := r.db.QueryRow(ctx, getNoteQuery, userID, videoID).Scan(
		&note.ID,
		&note.VideoID,
		&note.Title,
		&channelTitle,
		&thumbnail,
		&transcript,
		&note.Content,
		&note.CreatedAt,
		&note.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	note.ChannelTitle = utils.PtrToString(channelTitle)
	note.Thumbnail = utils.PtrToString(thumbnail)
	note.Transcript = utils.PtrToString(transcript)

	return &note, nil
}

// Insert notes for a video or replace the previous generation
func (r *Repository) UpsertNote(ctx context.Context, note *models.Note) (int, error) {

	var id int
	err := r.db.QueryRow(
		ctx,
		upsertNoteQuery,
		note.UserID,
		note.VideoID,
		note.Title,
		utils.NullString(&note.ChannelTitle),
		utils.NullString(&note.Thumbnail),
		utils.NullString(&note.Transcript),
		note.Content,
	).Scan(&id)

	return id, err
}

func (r *Repository) DeleteNote(ctx context.Context, userID int, videoID string) (int64, error) {
	return r.db.Exec(ctx, deleteNoteQuery, userID, videoID)
}

// Get a page of the user's notes, most recently updated first.
// The transcript and content columns are left out of the listing.
func (r *Repository) GetUserNotes(ctx context.Context, userID, page int) (*models.Notes, error) {

	// Construct the limit and offset
	limit := r.config.NotesPerPage
	offset := (page - 1) * limit

	// Get rows from DB
	rows, err := r.db.Query(ctx, getUserNotesQuery, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	// Close rows on exit
	defer rows.Close()

	// Iterate over the rows
	var notes models.Notes
	for rows.Next() {
		var note models.Note
		var channelTitle *string
		var thumbnail *string
		var totalNum int

		if err = rows.Scan(
			&note.ID,
			&note.VideoID,
			&note.Title,
			&channelTitle,
			&thumbnail,
			&note.CreatedAt,
			&note.UpdatedAt,
			&totalNum,
		); err != nil {
			return nil, err
		}

		note.ChannelTitle = utils.PtrToString(channelTitle)
		note.Thumbnail = utils.PtrToString(thumbnail)

		// Include the processed note in the result
		notes.Items = append(notes.Items, note)
		if totalNum != 0 {
			notes.TotalNum = totalNum
		}
	}

	// If error during iteration
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &notes, nil
}
