package middleware

import (
	"strings"

	"go-slab-ws/internal/model"
	"go-slab-ws/internal/session"
	"go-slab-ws/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// SessionKey is the c.Locals key holding the *session.Session of the request
const SessionKey = "session"

// RequireAuth validates the bearer token and loads the session it names.
// A token whose session was ended by logout or password reset is refused.
func RequireAuth(tokens *jwt.Manager, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		sess, err := sessions.Get(claims.SessionID)
		if err != nil || sess.UserID != claims.UserID {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired, please log in again"})
		}

		c.Locals(SessionKey, sess)
		return c.Next()
	}
}

// CurrentSession returns the session set by RequireAuth, or nil
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(SessionKey).(*session.Session)
	return sess
}

// RequirePrivilege checks the session's role grants the privilege
func RequirePrivilege(required model.Privilege) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}
		if !sess.Can(required) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + string(required) + "' privilege",
			})
		}
		return c.Next()
	}
}
