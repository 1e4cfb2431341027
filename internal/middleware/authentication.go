package middleware

import (
	"fmt"
	"strings"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/emamhosenCSE/aeos365-hrm/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RevokedSessionKey ist der Redis-Key, unter dem der Identity-Dienst widerrufene Sessions ablegt.
func RevokedSessionKey(jti string) string {
	return fmt.Sprintf("session:revoked:%s", jti)
}

// AuthMiddleware validiert das Authorization-Header ("Bearer <token>") und verifiziert das PASETO-Token.
// Bei Erfolg stehen "user_id", "email", "role" und "jti" in c.Locals.
// Fehlt der Header, ist das Format falsch oder das Token ungültig, widerrufen oder abgelaufen, folgt 401.
// redis darf nil sein; dann entfällt die Widerrufsprüfung.
func AuthMiddleware(pasetoMaker *utils.PasetoMaker, redis *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.missing_header", nil)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.invalid_format", nil)
		}

		// Verifizieren via PASETO
		payload, err := pasetoMaker.VerifyToken(parts[1])
		if err != nil {
			log.Warn().Err(err).Msg("Token-Verifizierung fehlgeschlagen")
			return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.invalid_token", nil)
		}

		if redis != nil && payload.JTI != "" {
			n, err := redis.Exists(c.Context(), RevokedSessionKey(payload.JTI)).Result()
			if err != nil {
				return app_errors.NewInternalError(err)
			}
			if n > 0 {
				return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.invalid_token", nil)
			}
		}

		// Speichern zu kontext, sodass Handler es nutzen kann
		c.Locals("user_id", payload.ActorID)
		c.Locals("email", payload.Email)
		c.Locals("role", payload.Role)
		c.Locals("jti", payload.JTI)

		return c.Next()
	}
}
