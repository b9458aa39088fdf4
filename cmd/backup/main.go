package main

import (
	"context"
	"log"
	"time"

	"github.com/notetube/notetube/internal/backup"
	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/integrations/r2"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := config.New()
	r2Service := r2.New(ctx, cfg)
	backupService := backup.New(cfg, r2Service)
	if err := backupService.Run(ctx); err != nil {
		log.Println(err)
	}
}
