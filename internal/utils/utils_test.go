package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notetube/notetube/internal/models"
)

func TestGetUserFromContext(t *testing.T) {

	var user = &models.User{ID: 1, Name: "test"}

	tests := []struct {
		name     string
		user     *models.User
		expected *models.User
	}{
		{"user in context", user, user},
		{"no user in context", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			// Add user to context if not nil
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), UserContextKey, tt.user)
				req = req.WithContext(ctx)
			}

			result := GetUserFromContext(req)
			if result != tt.expected {
				t.Errorf("got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetPageNum(t *testing.T) {

	tests := []struct {
		name, target string
		expected     int
	}{
		{"no page param", "/notes", 1},
		{"valid page", "/notes?page=3", 3},
		{"zero page", "/notes?page=0", 1},
		{"negative page", "/notes?page=-5", 1},
		{"non-numeric page", "/notes?page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if got := GetPageNum(req); got != tt.expected {
				t.Errorf("got %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {

	tests := []struct {
		name, input string
		maxLength   int
		expected    string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"longer than max", "hello world", 5, "hello"},
		{"zero max returns original", "hello", 0, "hello"},
		{"multibyte runes", "каде одиш", 4, "каде"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLength); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNullString(t *testing.T) {

	value := "hello"
	empty := ""

	tests := []struct {
		name      string
		input     *string
		wantValid bool
	}{
		{"nil pointer", nil, false},
		{"empty string", &empty, false},
		{"non-empty string", &value, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NullString(tt.input)
			if got.Valid != tt.wantValid {
				t.Errorf("got valid = %t, want %t", got.Valid, tt.wantValid)
			}
			if tt.wantValid && got.String != *tt.input {
				t.Errorf("got %q, want %q", got.String, *tt.input)
			}
		})
	}
}

func TestHttpError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"Bad Request", http.StatusBadRequest},
		{"Not Found", http.StatusNotFound},
		{"Internal Server Error", http.StatusInternalServerError},
		{"Forbidden", http.StatusForbidden},
		{"Unauthorized", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			HttpError(recorder, tt.status)

			// Check status code
			if recorder.Code != tt.status {
				t.Errorf("got %d, want %d", recorder.Code, tt.status)
			}

			// Check if the body contains the status text + newline
			expectedBody := http.StatusText(tt.status) + "\n"
			if recorder.Body.String() != expectedBody {
				t.Errorf("got %q, want %q", recorder.Body.String(), expectedBody)
			}
		})
	}
}
