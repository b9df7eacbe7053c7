package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftleague/go/internal/dbconfig"
	"github.com/mcdev12/draftleague/go/internal/draft/outbox"
	"github.com/mcdev12/draftleague/go/internal/draft/outbox/worker"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	cfg := dbconfig.NewConfigFromEnv()
	dsn := cfg.DSN()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("connected to database")

	jsCfg := worker.JetStreamConfigFromEnv()
	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 10*time.Second)
	publisher, err := worker.NewJetStreamPublisher(setupCtx, jsCfg)
	cancelSetup()
	if err != nil {
		log.Fatal().Err(err).Msg("create JetStream publisher")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("close publisher")
		}
	}()

	ltCfg := outbox.DefaultListenerConfig()
	ltCfg.DatabaseURL = dsn
	if iv := os.Getenv("FALLBACK_INTERVAL"); iv != "" {
		if d, err := time.ParseDuration(iv); err == nil {
			ltCfg.FallbackInterval = d
		}
	}

	app := outbox.NewApp(outbox.NewRepository(db))

	listener, err := outbox.NewListener(app, publisher, ltCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("create outbox listener")
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthAddr := os.Getenv("RELAY_HEALTH_ADDR")
	if healthAddr == "" {
		healthAddr = ":8081"
	}
	mux := http.NewServeMux()
	mux.Handle("/health", outbox.NewHealthChecker(listener, app, db, publisher, 2*ltCfg.FallbackInterval))
	healthServer := &http.Server{Addr: healthAddr, Handler: mux}
	go func() {
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server failed")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msg("starting outbox relay")
		errCh <- listener.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("health server shutdown")
		}
		select {
		case <-errCh:
		case <-shutdownCtx.Done():
		}
		log.Info().Msg("graceful shutdown complete")

	case err := <-errCh:
		log.Error().Err(err).Msg("listener exited unexpectedly")
	}
}
