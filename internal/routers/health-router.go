package routers

import (
	"github.com/emamhosenCSE/aeos365-hrm/internal/repo"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// HealthRouter registriert Health- und Readiness-Endpoints auf dem gegebenen Fiber-Router.
// Parameter:
//   - app:   Ziel-Router (fiber.Router), auf dem die Routen registriert werden.
//   - store: Persistenz-Adapter für den Readiness-Check.
//   - redis: optional; nil überspringt die Redis-Prüfung.
func HealthRouter(app fiber.Router, store *repo.Store, redis *redis.Client) {
	//   - GET /healthz: Liefert eine JSON-Antwort mit Statusinformation (HTTP 200).
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "Health-OK",
			"message": "Service lebt.",
		})
	})
	//   - GET /livez:  Einfache Liveness-Antwort als Text (HTTP 200).
	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Lebt.")
	})
	//   - GET /readyz: Prüft Redis und Datenbank.
	app.Get("/readyz", func(c *fiber.Ctx) error {
		if redis != nil {
			if err := redis.Ping(c.Context()).Err(); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "Fehlversuch",
					"error":  "Redis ist nicht bereit.",
				})
			}
		}

		if err := store.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "Fehlversuch",
				"error":  "Datenbank ist nicht bereit.",
			})
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "Bereit",
			"message": "Datenbank und App sind einsatzbereit.",
		})
	})
}
