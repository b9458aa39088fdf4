// Package containers provides test container utilities
package containers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"github.com/notetube/notetube/internal/config"
)

type Container interface {
	Terminate(ctx context.Context)
}

// Base64 of an unremarkable 32 byte string, good enough for tests
const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

var testEnvDefaults = map[string]string{
	"DB_DATABASE":    "notetube_test",
	"DB_USERNAME":    "test",
	"DB_PASSWORD":    "test",
	"CSRF_KEY":       testSecret,
	"AUTH_KEY":       testSecret,
	"ENCRYPTION_KEY": testSecret,
}

// TestConfig builds a config for container backed tests,
// filling in defaults for anything the environment leaves unset
func TestConfig() *config.Config {
	for key, value := range testEnvDefaults {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return config.New()
}

// GetProjectRoot returns the absolute path to the project root.
// It works by finding the directory of the caller of this func and navigating up
// until it finds the go.mod file.
func GetProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(1)
	if !ok {
		return "", errors.New("failed to get the caller information")
	}

	// Start directory for traversal
	dir := filepath.Dir(filename)

	for {
		modFile := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(modFile); err == nil {
			return dir, nil // Found the project root!
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return "", errors.New("reached root without finding go.mod")
		}

		dir = parentDir
	}
}
