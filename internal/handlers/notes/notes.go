package notes

import (
	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/drivers/rdb"
	"github.com/notetube/notetube/internal/integrations/gemini"
	"github.com/notetube/notetube/internal/integrations/transcript"
	"github.com/notetube/notetube/internal/integrations/yt"
	"github.com/notetube/notetube/internal/repositories/notes"
)

type Service struct {
	notesRepo  *notes.Repository
	transcript *transcript.Client
	yt         *yt.Service
	gemini     *gemini.Service
	rdb        *rdb.Service
	config     *config.Config
}

func New(
	notesRepo *notes.Repository,
	transcript *transcript.Client,
	yt *yt.Service,
	gemini *gemini.Service,
	rdb *rdb.Service,
	config *config.Config,
) *Service {
	return &Service{
		notesRepo:  notesRepo,
		transcript: transcript,
		yt:         yt,
		gemini:     gemini,
		rdb:        rdb,
		config:     config,
	}
}
