package handler

import (
	"errors"

	"go-slab-ws/internal/apperr"
	"go-slab-ws/internal/middleware"
	"go-slab-ws/internal/session"

	"github.com/gofiber/fiber/v2"
)

// fail writes the status and message for a service error
func fail(c *fiber.Ctx, err error) error {
	var (
		conflict     *apperr.ConflictError
		validation   *apperr.ValidationError
		connectivity *apperr.ConnectivityError
	)
	switch {
	case apperr.IsAuth(err):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, apperr.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, session.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflict.Error(), "field": conflict.Field})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": validation.Msg})
	case errors.As(err, &connectivity):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Database connection error"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

func currentSession(c *fiber.Ctx) *session.Session {
	return middleware.CurrentSession(c)
}
