package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/antoine01000/bureau-main/api"
	"github.com/antoine01000/bureau-main/config"
	"github.com/antoine01000/bureau-main/domain"
	"github.com/antoine01000/bureau-main/notify"
	"github.com/antoine01000/bureau-main/storage"
)

// householdStore is the store surface the page services need.
type householdStore interface {
	domain.AdminStorage
	domain.BoardStorage
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := log.New()
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var households householdStore = store
	broker := notify.NewBroker()
	var changes notify.Publisher = broker
	if cfg.RedisConnectionString != "" {
		opts, err := config.RedisOptions(cfg.RedisConnectionString)
		if err != nil {
			logger.Fatalf("redis: %v", err)
		}
		rc := redis.NewClient(opts)
		defer rc.Close()
		relay := notify.NewRedisRelay(rc, cfg.ChangesChannel, broker, logger)
		go relay.Run(ctx, nil)
		changes = relay
		households = storage.NewCache(store, rc, cfg.CacheTTL, "bureau:"+cfg.Storage.Partition)
	}

	activity := api.NewActivityPublisher(store, changes, api.ActivityConfig{
		Workers:        cfg.ActivityWorkers,
		Buffer:         cfg.ActivityBuffer,
		HandoffTimeout: cfg.ActivityHandoffTimeout,
		EnqueueTimeout: cfg.ActivityEnqueueTimeout,
	}, logger)
	defer activity.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(api.RequestMetrics(logger))

	api.Register(e, api.Deps{
		Admin:    domain.NewAdminService(households, activity, logger),
		Planning: domain.NewPlanningService(households, logger),
		Board:    domain.NewBoardService(households, activity, logger),
		Events:   broker,
		Stop:     ctx.Done(),
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()
	logger.Infof("listening on %s", cfg.ListenAddr)

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server shutdown failed")
	}
}
