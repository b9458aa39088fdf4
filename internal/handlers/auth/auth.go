package auth

import (
	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/drivers/rdb"
	"github.com/notetube/notetube/internal/repositories/users"

	"github.com/gorilla/sessions"
)

type Service struct {
	usersRepo *users.Repository
	store     sessions.Store
	rdb       *rdb.Service
	config    *config.Config
	oauth     Providers
}

func New(
	usersRepo *users.Repository,
	store sessions.Store,
	rdb *rdb.Service,
	config *config.Config,
) *Service {
	return &Service{
		usersRepo: usersRepo,
		store:     store,
		rdb:       rdb,
		config:    config,
		oauth:     NewProviders(config),
	}
}
