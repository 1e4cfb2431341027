package routers

import (
	"github.com/emamhosenCSE/aeos365-hrm/internal/i18n"
	"github.com/emamhosenCSE/aeos365-hrm/internal/repo"
	lifecycle_case "github.com/emamhosenCSE/aeos365-hrm/internal/use-cases/lifecycle-case"
	"github.com/emamhosenCSE/aeos365-hrm/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes richtet die API-Routen ein. redis darf nil sein (lokal ohne Redis).
func SetupRoutes(app *fiber.App, store *repo.Store, redis *redis.Client, i18n *i18n.I18nService, paseto *utils.PasetoMaker, lifecycle lifecycle_case.LifecycleServiceContract) {
	api := app.Group("/api/v1")

	LifecycleRouter(api, redis, i18n, paseto, lifecycle)
	HealthRouter(api, store, redis)
}
