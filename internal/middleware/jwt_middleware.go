package middleware

import (
	"strings"

	"kriya/internal/apperr"
	"kriya/internal/services"
	"kriya/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LocalsSession is the fiber.Ctx Locals key holding the *session.Session.
const LocalsSession = "session"

// AuthRequired is a Fiber middleware that resolves the bearer token to a live
// session and attaches it to the request context.
func AuthRequired(authService *services.AuthService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		sess, err := authService.Authenticate(c.UserContext(), token)
		if err != nil {
			kind := apperr.KindOf(err)
			detail := err.Error()
			if kind == apperr.KindNotAuthenticated {
				log.Debug("authentication failed", zap.Error(err))
			} else {
				log.Error("session lookup failed", zap.Error(err))
				detail = kind.String()
			}
			return c.Status(kind.Status()).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   detail,
			})
		}

		c.Locals(LocalsSession, sess)
		c.SetUserContext(session.WithSession(c.UserContext(), sess))
		return c.Next()
	}
}

// RequireRole rejects sessions whose role differs from role. It must run
// after AuthRequired.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := session.FromContext(c.UserContext())
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		if sess.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "This action requires the " + role + " role",
			})
		}
		return c.Next()
	}
}
