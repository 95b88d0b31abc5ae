package handler

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"moviemate/internal/models"
	"moviemate/internal/service"
)

func parseKind(c fiber.Ctx) (models.MediaKind, error) {
	return models.ParseMediaKind(c.Params("kind"))
}

func parseTelegramID(c fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("tid"), 10, 64)
}

// resolveUser maps the platform identity in the path to a stored user and
// refreshes the activity timestamp. Unknown users surface as NotFound so
// the front-end can prompt re-registration.
func resolveUser(ctx context.Context, c fiber.Ctx, users *service.UserService) (*models.User, error) {
	tid, err := parseTelegramID(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid user ID")
	}
	user, err := users.Lookup(ctx, tid)
	if err != nil {
		return nil, err
	}
	if err := users.Touch(ctx, user.ID); err != nil {
		slog.Error("failed to touch user activity", "user_id", user.ID, "error", err)
	}
	return user, nil
}
