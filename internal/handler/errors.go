package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"moviemate/internal/catalog"
	"moviemate/internal/repository"
	"moviemate/internal/service"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Fixed user-facing messages, one per failure kind. Raw error text never
// crosses this boundary.
const (
	msgCatalogDown  = "Couldn't load results right now. Try again later."
	msgUserUnknown  = "We don't know you yet. Please start over to register."
	msgStorageDown  = "Something went wrong. Please try again."
	msgInvalidInput = "That doesn't look right. Please check your input."
)

// respondError translates the error taxonomy into one fixed message per
// kind.
func respondError(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}

	switch {
	case errors.Is(err, catalog.ErrUnavailable):
		slog.Warn("catalog unavailable", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: msgCatalogDown})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgUserUnknown})
	case errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidTitle),
		errors.Is(err, service.ErrInvalidYearRange):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgStorageDown})
	}
}
