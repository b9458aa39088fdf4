package users

import (
	"context"
	"time"

	"github.com/notetube/notetube/internal/drivers/database"
	"github.com/notetube/notetube/internal/models"
	"github.com/notetube/notetube/internal/utils"
)

type Repository struct {
	db database.Service
}

func New(db database.Service) *Repository {
	return &Repository{db: db}
}

// Add or update a user, matched on provider identity or email
func (r *Repository) UpsertUser(ctx context.Context, user *models.User) (int, error) {

	var id int
	err := r.db.QueryRow(
		ctx,
		upsertUserQuery,
		user.Provider,
		user.ProviderUserId,
		utils.NullString(&user.AnalyticsID),
		utils.NullString(&user.Name),
		utils.NullString(&user.Email),
		utils.NullString(&user.AvatarURL),
	).Scan(&id)

	return id, err
}

// Delete a user together with their notes (ON DELETE CASCADE)
func (r *Repository) DeleteUser(ctx context.Context, userID int) (int64, error) {
	return r.db.Exec(ctx, deleteUserQuery, userID)
}

func (r *Repository) UpdateLastUserSeen(ctx context.Context, userID int, now time.Time) (int64, error) {
	return r.db.Exec(ctx, updateLastUserSeenQuery, userID, now)
}

// Get a page of users, newest last
func (r *Repository) GetUsers(ctx context.Context, limit, offset int) (*models.Users, error) {

	rows, err := r.db.Query(ctx, getUsersQuery, limit, offset)
	if err != nil {
		return nil, err
	}

	// Close rows on exit
	defer rows.Close()

	// Iterate over the rows
	var users models.Users
	for rows.Next() {
		var user models.User
		var ( // Nullable strings in the DB need pointers for the scan
			name        *string
			email       *string
			picture     *string
			analyticsID *string
		)
		var totalNum int

		if err = rows.Scan(
			&user.Provider,
			&user.ProviderUserId,
			&name,
			&email,
			&picture,
			&analyticsID,
			&user.LastSeen,
			&user.CreatedAt,
			&totalNum,
		); err != nil {
			return nil, err
		}

		user.Name = utils.PtrToString(name)
		user.Email = utils.PtrToString(email)
		user.AvatarURL = utils.PtrToString(picture)
		user.AnalyticsID = utils.PtrToString(analyticsID)

		users.Items = append(users.Items, user)
		if totalNum != 0 {
			users.TotalNum = totalNum
		}
	}

	// If error during iteration
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &users, nil
}
