package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"moviemate/internal/models"
	"moviemate/internal/service"
)

// UserHandler exposes account, preference, and curation operations.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// EnsureUserRequest is the registration/contact payload.
type EnsureUserRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// toggleResponse reports a membership change. Adding something already
// present is not an error; the front-end shows different text for each.
type toggleResponse struct {
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}

// EnsureUser handles PUT /users/:tid. Creates the user on first contact,
// bumps activity on every later one. The caller cannot tell the two apart.
func (h *UserHandler) EnsureUser(c fiber.Ctx) error {
	tid, err := parseTelegramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	var req EnsureUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	user, err := h.users.Ensure(c.Context(), tid, req.Username, req.FirstName, req.LastName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// AddFavorite handles POST /users/:tid/favorites with a title snapshot.
func (h *UserHandler) AddFavorite(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	var t models.Title
	if err := c.Bind().JSON(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	added, err := h.users.AddFavorite(c.Context(), user.ID, t)
	if err != nil {
		return respondError(c, err)
	}
	if !added {
		return c.JSON(toggleResponse{Changed: false, Message: "Already in favorites!"})
	}
	return c.Status(fiber.StatusCreated).JSON(toggleResponse{Changed: true, Message: "Added to favorites!"})
}

// RemoveFavorite handles DELETE /users/:tid/favorites/:id
func (h *UserHandler) RemoveFavorite(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}
	tmdbID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	removed, err := h.users.RemoveFavorite(c.Context(), user.ID, tmdbID)
	if err != nil {
		return respondError(c, err)
	}
	if !removed {
		return c.JSON(toggleResponse{Changed: false, Message: "Not in favorites."})
	}
	return c.JSON(toggleResponse{Changed: true, Message: "Removed from favorites."})
}

// ListFavorites handles GET /users/:tid/favorites
func (h *UserHandler) ListFavorites(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	favorites, err := h.users.Favorites(c.Context(), user.ID, fiber.Query(c, "limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(favorites)
}

// MarkWatched handles POST /users/:tid/watched with a title snapshot.
func (h *UserHandler) MarkWatched(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	var t models.Title
	if err := c.Bind().JSON(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	added, err := h.users.MarkWatched(c.Context(), user.ID, t)
	if err != nil {
		return respondError(c, err)
	}
	if !added {
		return c.JSON(toggleResponse{Changed: false, Message: "Already in your watch history!"})
	}
	return c.Status(fiber.StatusCreated).JSON(toggleResponse{Changed: true, Message: "Marked as watched!"})
}

// UnmarkWatched handles DELETE /users/:tid/watched/:id
func (h *UserHandler) UnmarkWatched(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}
	tmdbID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	removed, err := h.users.UnmarkWatched(c.Context(), user.ID, tmdbID)
	if err != nil {
		return respondError(c, err)
	}
	if !removed {
		return c.JSON(toggleResponse{Changed: false, Message: "Not in your watch history."})
	}
	return c.JSON(toggleResponse{Changed: true, Message: "Removed from watch history."})
}

// ListWatched handles GET /users/:tid/watched
func (h *UserHandler) ListWatched(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	watched, err := h.users.Watched(c.Context(), user.ID, fiber.Query(c, "limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(watched)
}

// GetPreferences handles GET /users/:tid/preferences
func (h *UserHandler) GetPreferences(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	prefs, err := h.users.Preferences(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prefs)
}

// UpdatePreferences handles PUT /users/:tid/preferences
func (h *UserHandler) UpdatePreferences(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	var prefs models.UserPreferences
	if err := c.Bind().JSON(&prefs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	updated, err := h.users.UpdatePreferences(c.Context(), user.ID, prefs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

// ListSearches handles GET /users/:tid/searches
func (h *UserHandler) ListSearches(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	searches, err := h.users.Searches(c.Context(), user.ID, fiber.Query(c, "limit", 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(searches)
}

// Stats handles GET /users/:tid/stats
func (h *UserHandler) Stats(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.users.Stats(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
