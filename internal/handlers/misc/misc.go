package misc

import (
	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/drivers/database"
	"github.com/notetube/notetube/internal/drivers/rdb"
)

type Service struct {
	config *config.Config
	db     database.Service
	rdb    *rdb.Service
}

func New(config *config.Config, db database.Service, rdb *rdb.Service) *Service {
	return &Service{
		config: config,
		db:     db,
		rdb:    rdb,
	}
}
