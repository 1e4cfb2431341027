package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/config"
	"github.com/emamhosenCSE/aeos365-hrm/internal/db"
	"github.com/emamhosenCSE/aeos365-hrm/internal/mail"
	"github.com/emamhosenCSE/aeos365-hrm/internal/repo"
	"github.com/emamhosenCSE/aeos365-hrm/internal/worker"
	worker_handler "github.com/emamhosenCSE/aeos365-hrm/internal/worker/handlers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.APP.State != "local" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := repo.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	redisPool, err := db.RedisPool(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}

	notifiers := []mail.Notifier{mail.NewMailer(cfg)}
	if cfg.TELEGRAM.Token != "" {
		tg, err := mail.NewTelegramNotifier(cfg.TELEGRAM.Token, cfg.TELEGRAM.ChatID)
		if err != nil {
			log.Error().Err(err).Msg("telegram disabled")
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	handler := worker_handler.NewWorkerHandler(store.Lifecycle, store.Employees, store.Audit, notifiers...)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// run worker
	errChan := make(chan error, 1)
	go func() {
		log.Info().Int("notifiers", len(notifiers)).Msg("Starting worker server...")
		if err := worker.RunWorker(ctx, redisPool, handler); err != nil {
			errChan <- err
		}
	}()

	// wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
		store.Close()
		redisPool.Close()
		log.Info().Msg("worker shutdown complete")
	case err := <-errChan:
		log.Fatal().Err(err).Msg("worker crashed")
	}
}
