package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/draftleague/go/internal/rules"
)

func main() {
	// load .env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg := loadConfig()
	setupLogging(cfg)

	leagueRules, err := rules.Load(cfg.RulesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load rules")
	}
	log.Info().
		Int("total_points", leagueRules.Draft.TotalPoints).
		Int("total_rounds", leagueRules.Draft.TotalRounds).
		Str("draft_type", string(leagueRules.Draft.DraftType)).
		Int("max_slots", leagueRules.Roster.MaxSlots).
		Msg("loaded league rules")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := setupStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("setup store")
	}
	defer closeStore()

	server := setupServer(cfg, setupServices(st, leagueRules))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting draft league server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
		log.Info().Msg("graceful shutdown complete")

	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server exited unexpectedly")
		}
	}
}

func setupLogging(cfg Config) {
	if cfg.PrettyLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
