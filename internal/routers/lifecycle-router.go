package routers

import (
	"fmt"
	"net"
	"strconv"
	"time"

	lifecycle_handlers "github.com/emamhosenCSE/aeos365-hrm/internal/handlers/lifecycle"
	"github.com/emamhosenCSE/aeos365-hrm/internal/i18n"
	"github.com/emamhosenCSE/aeos365-hrm/internal/middleware"
	lifecycle_case "github.com/emamhosenCSE/aeos365-hrm/internal/use-cases/lifecycle-case"
	"github.com/emamhosenCSE/aeos365-hrm/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redis_fiber "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func LifecycleRouter(api fiber.Router, redis *redis.Client, i18n *i18n.I18nService, paseto *utils.PasetoMaker, service lifecycle_case.LifecycleServiceContract) {
	r := api.Group("/lifecycle", middleware.AuthMiddleware(paseto, redis))
	h := lifecycle_handlers.NewLifecycleHandler(service, i18n)

	bulkLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			userID := c.Locals("user_id")
			if userID == nil {
				return "lifecycle:bulk:ip:" + c.IP() // fallback to ip
			}
			return fmt.Sprintf("lifecycle:bulk:%v", userID)
		},
		LimitReached: func(c *fiber.Ctx) error {
			lang, _ := c.Locals("lang").(string)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error":  i18n.T(lang, "request.too_many_requests", nil),
			})
		},
		Storage: limiterStorage(redis),
	})

	r.Post("/cases", h.StartCase)
	r.Post("/cases/bulk", bulkLimiter, h.BulkStartCases)
	r.Get("/cases", h.ListCases)
	r.Get("/cases/:case_id", h.GetCase)
	r.Get("/cases/:case_id/history", h.CaseHistory)
	r.Patch("/cases/:case_id", h.UpdateCase)
	r.Put("/cases/:case_id/tasks", h.ReconcileTasks)
	r.Post("/cases/:case_id/tasks", h.CreateTask)
	r.Post("/cases/:case_id/complete", h.CompleteCase)
	r.Post("/cases/:case_id/cancel", h.CancelCase)
	r.Delete("/cases/:case_id", h.DeleteCase)

	r.Get("/tasks/:task_id", h.GetTask)
	r.Patch("/tasks/:task_id", h.UpdateTask)
	r.Post("/tasks/:task_id/complete", h.CompleteTask)
	r.Delete("/tasks/:task_id", h.DeleteTask)
}

// limiterStorage legt die Zähler des Limiters in Redis (DB 1) ab. Ohne Redis zählt der Limiter im Speicher.
func limiterStorage(redis *redis.Client) fiber.Storage {
	if redis == nil {
		return nil
	}

	// prepare redis storage for rate limiter fiber
	host, portStr, err := net.SplitHostPort(redis.Options().Addr)
	if err != nil {
		log.Warn().Err(err).Msg("Redis-Adresse nicht lesbar, Limiter zählt im Speicher")
		return nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = 6379
	}

	return redis_fiber.New(redis_fiber.Config{
		Host:     host,
		Port:     port,
		Password: redis.Options().Password,
		Database: 1,
	})
}
