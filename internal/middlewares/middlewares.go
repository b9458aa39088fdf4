package middlewares

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/models"
	"github.com/notetube/notetube/internal/utils"

	"github.com/gorilla/csrf"
	"github.com/klauspost/compress/gzhttp"
)

// UserLoader resolves the current user from the request session
type UserLoader interface {
	GetUserFromSession(w http.ResponseWriter, r *http.Request) *models.User
}

type Service struct {
	auth   UserLoader
	config *config.Config
}

func New(auth UserLoader, config *config.Config) *Service {
	return &Service{
		auth:   auth,
		config: config,
	}
}

// Check if the user is authenticated
func (s *Service) IsAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If the user is authenticated move onto the next handler
		if user := utils.GetUserFromContext(r); user.IsAuthenticated() {
			next(w, r)
			return
		}

		// Serve unauthorized error
		utils.HttpError(w, http.StatusUnauthorized)
	}
}

// Check if the user is admin
func (s *Service) IsAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// If the user is admin move onto the next handler
		user := utils.GetUserFromContext(r)
		if user.IsAdmin(s.config.AdminProviderUserId, s.config.AdminProvider) {
			next(w, r)
			return
		}

		// Serve forbidden error
		utils.HttpError(w, http.StatusForbidden)
	}
}

// Get user from session and put it in context
func (s *Service) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Get user from session and store in context
		user := s.auth.GetUserFromSession(w, r) // Can be nil
		ctx := context.WithValue(r.Context(), utils.UserContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Close the body if POST request
func (s *Service) CloseBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Close request body for POST methods to prevent resource leaks
		if r.Method == http.MethodPost {
			defer r.Body.Close()
		}
		next.ServeHTTP(w, r)
	})
}

// Do not crash the app on panic, serve 500 error to the client
func (s *Service) RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// If in production recover panic
		if !s.config.Debug {
			defer func() {
				if err := recover(); err != nil {
					// Log the panic with stack trace
					log.Printf("Panic in %s %s: %#v", r.Method, r.URL.Path, err)

					// Return 500 to client
					http.Error(w, "Something went wrong", http.StatusInternalServerError)
				}
			}()
		}

		next.ServeHTTP(w, r)
	})
}

// Log every request with its status and duration
func (s *Service) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		recorder := NewResponseRecorder(w)
		defer recorder.flush()

		next.ServeHTTP(recorder, r)

		log.Printf(
			"%s %s %d %s",
			r.Method, r.URL.Path, recorder.status, time.Since(start),
		)
	})
}

// Add security headers to request
func (s *Service) AddHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// XSS Protection
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")

		// HSTS (HTTPS only)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")

		next.ServeHTTP(w, r)
	})
}

// Create CSRF middlware with added plain text option for local development
func (s *Service) CSRF(next http.Handler) http.Handler {

	// Create the csrf middleware as per the gorilla/csrf documentation
	csrfMiddleware := csrf.Protect(
		s.config.CsrfKey.Bytes,
		csrf.CookieName(s.config.CsrfSessionName),
		csrf.Secure(!s.config.Debug),
		csrf.Path("/"),
	)

	// Return the handler function
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		// Anonimous users don't make POST requests,
		// so no CSRF protection needed.
		// gorilla/csrf sets Vary: Cookie header
		// and we don't want that for anonimous requests,
		// because we want to cache those.
		user := utils.GetUserFromContext(r)
		if !user.IsAuthenticated() {
			next.ServeHTTP(w, r)
			return
		}

		// If debug set plain text (HTTP) schema
		if s.config.Debug {
			r = csrf.PlaintextHTTPRequest(r)
		}

		// Call the pre-created CSRF middleware
		csrfMiddleware(next).ServeHTTP(w, r)
	})
}

// Compress provides gzip compression to the responses
func (s *Service) Compress(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// Chain middlewares that apply to all handlers
func (s *Service) ApplyToAll(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		// Apply middlewares in reverse order
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
