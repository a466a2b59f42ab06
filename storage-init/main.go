package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/antoine01000/bureau-main/config"
	"github.com/antoine01000/bureau-main/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("storage init starting")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := storage.Provision(ctx, cfg.Storage); err != nil {
		log.Fatalf("provision: %v", err)
	}

	log.Info("storage init complete")
}
