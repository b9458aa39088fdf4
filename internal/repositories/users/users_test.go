package users

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/containers"
	"github.com/notetube/notetube/internal/drivers/database"
	"github.com/notetube/notetube/internal/models"
)

var ( // Package global variables
	testCfg  *config.Config
	testRepo *Repository
	testDB   database.Service
	baseCtx  context.Context
)

// Sets up a PostgreSQL container for all tests in this package to use
func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {

	projectRoot, err := containers.GetProjectRoot()
	if err != nil {
		log.Fatal(err)
	}

	// Get the path to project's .env file and load the env vars
	// This is valid only for local test runs
	envPath := filepath.Join(projectRoot, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("failed to load .env file; %v", err)
	}

	baseCtx = context.Background()
	testCfg = containers.TestConfig()

	setupCtx, setupCancel := context.WithTimeout(baseCtx, 5*time.Minute)
	defer setupCancel()

	container, err := containers.SetupTestDB(setupCtx, testCfg, projectRoot)
	if err != nil {
		log.Fatalf("failed to create postgres container; %v", err)
	}

	// Terminate the container on exit
	defer container.Terminate(baseCtx)

	testDB, err = database.New(testCfg)
	if err != nil {
		log.Fatalf("failed to create db pool; %v", err)
	}
	defer testDB.Close()

	testRepo = New(testDB)

	return m.Run()
}

func TestUpsertUser(t *testing.T) {

	// Matches the first seeded user
	existing := &models.User{
		Provider:       "google",
		ProviderUserId: "test1",
		Name:           "Test User 1",
		Email:          "test1@example.com",
	}

	id, err := testRepo.UpsertUser(baseCtx, existing)
	if err != nil {
		t.Fatalf("failed to upsert existing user; %v", err)
	}

	if id != 1 {
		t.Errorf("got id = %d, want 1", id)
	}

	// Same email, different provider identity
	sameEmail := &models.User{
		Provider:       "google",
		ProviderUserId: "another-id",
		Name:           "Test User 1",
		Email:          "test1@example.com",
	}

	id, err = testRepo.UpsertUser(baseCtx, sameEmail)
	if err != nil {
		t.Fatalf("failed to upsert user by email; %v", err)
	}

	if id != 1 {
		t.Errorf("got id = %d, want 1", id)
	}

	// Brand new user
	fresh := &models.User{
		Provider:       "google",
		ProviderUserId: "fresh",
		Name:           "Fresh User",
		Email:          "fresh@example.com",
		AvatarURL:      "https://example.com/fresh.jpg",
	}
	fresh.SetAnalyticsID()

	freshID, err := testRepo.UpsertUser(baseCtx, fresh)
	if err != nil {
		t.Fatalf("failed to upsert new user; %v", err)
	}

	if freshID <= 2 {
		t.Errorf("got id = %d, want a new id", freshID)
	}

	// Upserting again resolves to the same row
	again, err := testRepo.UpsertUser(baseCtx, fresh)
	if err != nil {
		t.Fatalf("failed to upsert same user twice; %v", err)
	}

	if again != freshID {
		t.Errorf("got id = %d, want %d", again, freshID)
	}
}

func TestUpdateLastUserSeen(t *testing.T) {

	tests := []struct {
		name         string
		userID       int
		rowsAffected int64
	}{
		{"existing user", 1, 1},
		{"missing user", 999999, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := testRepo.UpdateLastUserSeen(baseCtx, tt.userID, time.Now())
			if err != nil {
				t.Fatalf("failed to update last seen; %v", err)
			}

			if rows != tt.rowsAffected {
				t.Errorf("got rows = %d, want %d", rows, tt.rowsAffected)
			}
		})
	}
}

func TestDeleteUser(t *testing.T) {

	// Create a disposable user
	user := &models.User{
		Provider:       "google",
		ProviderUserId: "doomed",
		Email:          "doomed@example.com",
	}

	id, err := testRepo.UpsertUser(baseCtx, user)
	if err != nil {
		t.Fatalf("failed to upsert user; %v", err)
	}

	// Give the user a note, so the cascade has something to remove
	_, err = testDB.Exec(
		baseCtx,
		"INSERT INTO note (user_id, video_id, title, content) VALUES ($1, 'abc123DEF45', 'Doomed', 'x')",
		id,
	)
	if err != nil {
		t.Fatalf("failed to insert note; %v", err)
	}

	rows, err := testRepo.DeleteUser(baseCtx, id)
	if err != nil {
		t.Fatalf("failed to delete user; %v", err)
	}

	if rows != 1 {
		t.Errorf("got rows = %d, want 1", rows)
	}

	// The note went down with the user
	var count int
	err = testDB.QueryRow(
		baseCtx,
		"SELECT COUNT(*) FROM note WHERE user_id = $1",
		id,
	).Scan(&count)

	if err != nil {
		t.Fatalf("failed to count notes; %v", err)
	}

	if count != 0 {
		t.Errorf("got %d notes, want 0", count)
	}

	// Deleting again affects nothing
	rows, err = testRepo.DeleteUser(baseCtx, id)
	if err != nil {
		t.Fatalf("failed to delete user twice; %v", err)
	}

	if rows != 0 {
		t.Errorf("got rows = %d, want 0", rows)
	}
}

func TestGetUsers(t *testing.T) {

	users, err := testRepo.GetUsers(baseCtx, 1, 0)
	if err != nil {
		t.Fatalf("failed to get users; %v", err)
	}

	if len(users.Items) != 1 {
		t.Fatalf("got %d users, want 1", len(users.Items))
	}

	if users.TotalNum < 2 {
		t.Errorf("got total = %d, want at least 2", users.TotalNum)
	}

	// Offset past the end
	empty, err := testRepo.GetUsers(baseCtx, 10, 1000)
	if err != nil {
		t.Fatalf("failed to get users; %v", err)
	}

	if len(empty.Items) != 0 {
		t.Errorf("got %d users, want 0", len(empty.Items))
	}
}
