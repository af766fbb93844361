package handlers

import (
	"errors"

	"kriya/internal/apperr"
	"kriya/internal/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError writes err as JSON with the status of its kind. message is the
// fallback summary for errors that carry none. Storage failures are only
// logged in full; the client sees the kind.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, message string) error {
	kind := apperr.KindOf(err)
	detail := err.Error()
	if kind == apperr.KindStorage {
		detail = kind.String()
	}
	body := fiber.Map{
		"message": message,
		"error":   detail,
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Message != "" && kind != apperr.KindStorage {
			body["message"] = appErr.Message
		}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
	}

	if kind == apperr.KindStorage {
		log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	} else {
		log.Debug(message, zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(kind.Status()).JSON(body)
}

// badRequest reports a body that could not be parsed.
func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// currentSession returns the session attached by the auth middleware.
func currentSession(c *fiber.Ctx) (*session.Session, error) {
	return session.Current(c.UserContext())
}
