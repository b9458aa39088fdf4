package server

import (
	"log"
	"net/http"
	"runtime"
	"runtime/pprof"

	"github.com/notetube/notetube/internal/utils"
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("GET /auth/{provider}", s.auth.AuthHandler)
	mux.HandleFunc("GET /auth/{provider}/callback", s.auth.AuthCallbackHandler)
	mux.HandleFunc("GET /logout/{provider}", s.mw.IsAuthenticated(s.auth.LogoutHandler))
	mux.HandleFunc("POST /account/delete", s.mw.IsAuthenticated(s.auth.DeleteAccountHandler))

	// Transcript routes, same envelope as the standalone service
	mux.Handle("/api/transcript", s.transcript)

	// Notes routes
	mux.HandleFunc("POST /api/generate", s.mw.IsAuthenticated(s.notes.GenerateHandler))
	mux.HandleFunc("GET /api/notes", s.mw.IsAuthenticated(s.notes.ListNotesHandler))
	mux.HandleFunc("GET /api/notes/{video}", s.mw.IsAuthenticated(s.notes.GetNoteHandler))
	mux.HandleFunc("PUT /api/notes/{video}", s.mw.IsAuthenticated(s.notes.UpdateNoteHandler))
	mux.HandleFunc("DELETE /api/notes/{video}", s.mw.IsAuthenticated(s.notes.DeleteNoteHandler))
	mux.HandleFunc("GET /api/notes/{video}/html", s.mw.IsAuthenticated(s.notes.HTMLHandler))
	mux.HandleFunc("GET /api/notes/{video}/download", s.mw.IsAuthenticated(s.notes.DownloadHandler))

	// Health route
	mux.HandleFunc("GET /health/{$}", s.mw.IsAdmin(s.misc.HealthHandler))

	// Route for memory profiling
	mux.HandleFunc("GET /debug/heap", s.mw.IsAdmin(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Robots-Tag", "noindex")
			w.Header().Set("Content-Type", "application/octet-stream")
			runtime.GC()
			if err := pprof.WriteHeapProfile(w); err != nil {
				utils.HttpError(w, http.StatusInternalServerError)
			}
		},
	))

	// Simple health check
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("Failed to write response on '%s'; %v", r.URL.Path, err)
		}
	})

	// Chain middlewares that apply to all requests
	handler := s.mw.ApplyToAll(
		s.mw.RecoverPanic,
		s.mw.Logging,
		s.mw.CloseBody,
		s.mw.AddHeaders,
		s.mw.Compress,
		s.mw.LoadUser,
		s.mw.CSRF,
	)(mux)

	return handler
}
