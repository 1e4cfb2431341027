package middleware

import (
	"github.com/emamhosenCSE/aeos365-hrm/internal/i18n"
	"github.com/gofiber/fiber/v2"
)

// AcceptLanguageMiddleware wählt anhand von Accept-Language (mit q-Werten) eine
// unterstützte Sprache und legt sie unter c.Locals("lang") ab.
func AcceptLanguageMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("lang", i18n.MatchLanguage(c.Get(fiber.HeaderAcceptLanguage)))
		return c.Next()
	}
}
