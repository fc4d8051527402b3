package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/db"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/config"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/logging"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/obs"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/repository"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/router"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logging.New(cfg.LogLevel, cfg.IsDevelopment())

	ctx := context.Background()

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init tracer")
	}

	gdb, err := db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}

	store := repository.NewStore(gdb)

	if err := store.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	var notifier services.Notifier = services.NoopNotifier{}
	if webhooks := services.NewWebhookNotifier(cfg.DiscordWebhookURL, cfg.SlackWebhookURL); webhooks.Enabled() {
		notifier = webhooks
	}

	app, err := router.NewRouter(router.Dependencies{
		Config:   cfg,
		Store:    store,
		Logger:   log,
		Notifier: notifier,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	app.Hub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info().Msg("server stopped")
}
