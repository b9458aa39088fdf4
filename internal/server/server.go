package server

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/drivers/database"
	"github.com/notetube/notetube/internal/drivers/rdb"
	"github.com/notetube/notetube/internal/handlers/auth"
	"github.com/notetube/notetube/internal/handlers/misc"
	"github.com/notetube/notetube/internal/handlers/notes"
	transcriptHandler "github.com/notetube/notetube/internal/handlers/transcript"
	"github.com/notetube/notetube/internal/integrations/gemini"
	"github.com/notetube/notetube/internal/integrations/transcript"
	"github.com/notetube/notetube/internal/integrations/yt"
	"github.com/notetube/notetube/internal/middlewares"
	notesRepo "github.com/notetube/notetube/internal/repositories/notes"
	usersRepo "github.com/notetube/notetube/internal/repositories/users"
	redisStore "github.com/notetube/notetube/internal/store"
)

type Server struct {
	auth       *auth.Service
	notes      *notes.Service
	transcript *transcriptHandler.Service
	misc       *misc.Service
	mw         *middlewares.Service
	cleanup    func() error

	Domain     string
	HttpServer *http.Server
}

// Create new HTTP server
func NewServer() *Server {

	// Register types with gob to be able to use them in sessions
	gob.Register(time.Time{})

	// Init config
	cfg := config.New()

	// Create database service
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create DB service; %v", err)
	}

	// Create Redis service
	rdb, err := rdb.New(cfg)
	if err != nil {
		log.Fatalf("couldn't create Redis service; %v", err)
	}

	// Create session store
	store := redisStore.NewRedisStore(
		cfg, rdb, "session", 86400*30,
		cfg.AuthKey.Bytes, cfg.EncryptionKey.Bytes,
	)

	// Create DB repositories
	usersRepo := usersRepo.New(db)
	notesRepo := notesRepo.New(db, cfg)

	// Create YouTube service
	ctx := context.Background()
	yt, err := yt.New(ctx, cfg)
	if err != nil {
		log.Fatalf("couldn't create YouTube service: %v", err)
	}

	// Create Gemini limiter and client
	limiter, err := gemini.NewLimiter(cfg, rdb)
	if err != nil {
		log.Fatalf("couldn't create Gemini limiter: %v", err)
	}

	gemini, err := gemini.New(ctx, cfg, limiter)
	if err != nil {
		log.Fatalf("couldn't create Gemini service: %v", err)
	}

	// Create the transcript client
	transcriptClient := transcript.New(cfg)

	// Create the auth service, also used by the middlewares to load the user
	authService := auth.New(usersRepo, store, rdb, cfg)

	// Create new server service
	s := &Server{
		auth:       authService,
		notes:      notes.New(notesRepo, transcriptClient, yt, gemini, rdb, cfg),
		transcript: transcriptHandler.New(transcriptClient),
		misc:       misc.New(cfg, db, rdb),
		mw:         middlewares.New(authService, cfg),
		cleanup: func() error {
			db.Close()
			return rdb.Client.Close()
		},

		Domain: cfg.Domain,
		HttpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}

	s.HttpServer.Handler = s.RegisterRoutes()

	return s
}
