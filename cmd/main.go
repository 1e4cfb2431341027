package main

// Package main ist der Einstiegspunkt des HRM-Lifecycle-Dienstes.
// Es lädt die Konfiguration, öffnet Store, Redis, Queue und Paseto-Maker,
// setzt die Fiber-API mit Middleware und Routern auf und startet den HTTP-Server.

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/cache"
	"github.com/emamhosenCSE/aeos365-hrm/internal/authz"
	"github.com/emamhosenCSE/aeos365-hrm/internal/config"
	"github.com/emamhosenCSE/aeos365-hrm/internal/db"
	"github.com/emamhosenCSE/aeos365-hrm/internal/i18n"
	"github.com/emamhosenCSE/aeos365-hrm/internal/middleware"
	"github.com/emamhosenCSE/aeos365-hrm/internal/queue"
	"github.com/emamhosenCSE/aeos365-hrm/internal/repo"
	"github.com/emamhosenCSE/aeos365-hrm/internal/routers"
	lifecycle_case "github.com/emamhosenCSE/aeos365-hrm/internal/use-cases/lifecycle-case"
	"github.com/emamhosenCSE/aeos365-hrm/internal/utils"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func setupLogger(state string) {
	if state == "local" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// main initialisiert alle benötigten Ressourcen für den HTTP-Server und stellt sicher,
// dass bei Beendigung sauber heruntergefahren und aufgeräumt wird.
func main() {
	// 0. I18N Einführung
	i18nSvc := i18n.NewInitI18nService()

	// 1. Konfiguration laden (config.LoadConfig).
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Konfiguration konnte nicht geladen werden")
	}
	setupLogger(cfg.APP.State)

	// 2. Store (Postgres oder SQLite) und Redis-Verbindungs-Pool erstellen.
	ctx := context.Background()
	store, err := repo.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Store konnte nicht geöffnet werden")
	}
	redisPool, err := db.RedisPool(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis-Pool konnte nicht erstellt werden")
	}

	// 3. Paseto-Maker initialisieren (utils.NewPasetoMaker).
	paseto, err := utils.NewPasetoMaker(cfg.APP_SECRET.Paseto.HexKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Paseto-Maker konnte nicht erstellt werden")
	}

	// 4. Lifecycle-Service mit Rollen-Gate, Queue und Redis-Cache.
	taskQueue := queue.NewTaskQueue(redisPool)
	service := lifecycle_case.NewLifecycleService(
		store,
		authz.NewRoleGate(store.Employees),
		taskQueue,
		cache.NewRedisCache(redisPool),
		cfg.LIFECYCLE,
	)

	// 5. Fiber-App mit ErrorHandler, RequestID- und Logger-Middleware erstellen.
	app := fiber.New(fiber.Config{
		AppName:      cfg.APP.Name,
		ErrorHandler: middleware.ErrorHandlerMiddleware(i18nSvc),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.AcceptLanguageMiddleware())
	app.Use(middleware.LoggerMiddleware())

	// 6. Applikationsrouten registrieren (routers.SetupRoutes).
	routers.SetupRoutes(app, store, redisPool, i18nSvc, paseto, service)

	go func() {
		log.Info().Msgf("Starte %s auf Port %s", cfg.APP.Name, cfg.APP.Port)
		if err := app.Listen(fmt.Sprintf(":%s", cfg.APP.Port)); err != nil {
			if err == http.ErrServerClosed {
				log.Info().Msg("Server ordnungsgemäß herunterfahren.")
			} else {
				log.Fatal().Err(err).Msgf("Der Server konnte nicht gestartet werden, %v", err)
			}
		}
	}()

	// 7. Graceful Shutdown bei SIGINT/SIGTERM
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	stop()
	log.Warn().Msg("Shutdown-Signal empfangen... Vorbereitung zum Herunterfahren.")

	// erst Fiber, damit keine Handler mehr auf Store oder Redis zugreifen
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msgf("Beim Herunterfahren ist ein Fehler aufgtreten: %v", err)
	}

	if err := taskQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Queue-Client konnte nicht geschlossen werden")
	}
	if redisPool != nil {
		redisPool.Close()
		log.Info().Msg("Redis-Pool erfolgreich geschlossen.")
	}
	store.Close()
	log.Info().Msg("Store erfolgreich geschlossen.")
}
