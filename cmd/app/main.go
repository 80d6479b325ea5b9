package main

import (
	"context"
	"net/http"
	"os"

	"cargoflow/backend"
	"cargoflow/booking"
	"cargoflow/config"
	"cargoflow/distance"
	"cargoflow/logger"
	"cargoflow/quote"
	"cargoflow/reporting"
	"cargoflow/session"
)

func main() {
	log, err := logger.New(os.Getenv("CARGOFLOW_LOG_LEVEL"))
	if err != nil {
		// Nothing to log with; bail the old-fashioned way.
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("configuration invalid", "error", err)
	}

	ctx := context.Background()

	var storage session.Storage
	if cfg.RedisAddr != "" {
		redisStorage, err := session.NewRedisStorage(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatal("connect session storage", "error", err)
		}
		defer redisStorage.Close()
		storage = redisStorage
	} else {
		fileStorage, err := session.NewFileStorage(cfg.SessionFile)
		if err != nil {
			log.Fatal("open session storage", "error", err)
		}
		storage = fileStorage
	}

	api, err := backend.NewClient(cfg.APIBaseURL, log)
	if err != nil {
		log.Fatal("build backend client", "error", err)
	}

	lookup, err := distance.NewClient(cfg.DistanceBaseURL, cfg.DistanceAPIKey)
	if err != nil {
		log.Fatal("build distance client", "error", err)
	}

	sessions := session.NewManager(storage, api, log)
	sessions.OnChange(func(snap session.Snapshot) {
		log.Debug("session changed", "loading", snap.Loading, "authenticated", snap.Identity != nil)
	})

	server := newServer(
		sessions,
		api,
		quote.NewWizard(lookup, quote.DefaultRates()),
		booking.NewService(api, log),
		reporting.NewService(api),
		log,
	)

	// Restore the persisted session in the background; route guards render
	// the waiting state until it resolves.
	go func() {
		if err := sessions.Initialize(ctx); err != nil {
			log.Warn("session initialize", "error", err)
		}
	}()

	log.Info("cargoflow listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server.routes()); err != nil {
		log.Fatal("serve", "error", err)
	}
}
