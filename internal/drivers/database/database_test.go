package database

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/containers"

	"github.com/joho/godotenv"
)

var ( // Package global variables
	testCfg *config.Config
	baseCtx context.Context
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

	return m.Run()
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.Config
		expected Service
		wantErr  bool
	}{
		{"nil config", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("got error = %v, want error = %t", err, tt.wantErr)
			}

			if !cmp.Equal(db, tt.expected) {
				t.Errorf("got %+v, want %+v", db, tt.expected)
			}
		})
	}
}

func TestQueryRoundtrip(t *testing.T) {

	db, err := New(testCfg)
	if err != nil {
		t.Fatalf("failed to create db pool; %v", err)
	}
	t.Cleanup(db.Close)

	var one int
	if err := db.QueryRow(baseCtx, "SELECT 1").Scan(&one); err != nil {
		t.Fatalf("failed to query row; %v", err)
	}

	if one != 1 {
		t.Errorf("got %d, want 1", one)
	}
}
