package handler

import (
	"github.com/gofiber/fiber/v3"

	"moviemate/internal/service"
	"moviemate/internal/session"
)

// FilterHandler exposes the filter-building session to the front-end: one
// route per step of the interactive flow.
type FilterHandler struct {
	users    *service.UserService
	sessions session.Store
}

// NewFilterHandler creates a new FilterHandler.
func NewFilterHandler(users *service.UserService, sessions session.Store) *FilterHandler {
	return &FilterHandler{users: users, sessions: sessions}
}

type filterStateResponse struct {
	session.FilterState
	Message string `json:"message,omitempty"`
}

// Get handles GET /users/:tid/filters
func (h *FilterHandler) Get(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	state, err := h.sessions.Get(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(filterStateResponse{FilterState: state})
}

// ToggleGenre handles POST /users/:tid/filters/genres/:name
func (h *FilterHandler) ToggleGenre(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}
	name := c.Params("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	state, err := h.sessions.Get(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	selected := state.ToggleGenre(name)
	if err := h.sessions.Put(c.Context(), user.ID, state); err != nil {
		return respondError(c, err)
	}

	msg := "Genre removed."
	if selected {
		msg = "Genre selected."
	}
	return c.JSON(filterStateResponse{FilterState: state, Message: msg})
}

type yearRangeRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// SetYearRange handles PUT /users/:tid/filters/years
func (h *FilterHandler) SetYearRange(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	var req yearRangeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}
	if req.From <= 0 || req.To <= 0 || req.From > req.To {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	state, err := h.sessions.Get(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	state.SetYearRange(req.From, req.To)
	if err := h.sessions.Put(c.Context(), user.ID, state); err != nil {
		return respondError(c, err)
	}
	return c.JSON(filterStateResponse{FilterState: state})
}

type minRatingRequest struct {
	MinRating float64 `json:"min_rating"`
}

// SetMinRating handles PUT /users/:tid/filters/rating
func (h *FilterHandler) SetMinRating(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	var req minRatingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}
	if req.MinRating < 0 || req.MinRating > 10 {
		return respondError(c, service.ErrInvalidRating)
	}

	state, err := h.sessions.Get(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	state.SetMinRating(req.MinRating)
	if err := h.sessions.Put(c.Context(), user.ID, state); err != nil {
		return respondError(c, err)
	}
	return c.JSON(filterStateResponse{FilterState: state})
}

// Reset handles POST /users/:tid/filters/reset. Resetting an
// already-default session is reported distinctly and mutates nothing.
func (h *FilterHandler) Reset(c fiber.Ctx) error {
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	state, err := h.sessions.Get(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	if !state.Reset() {
		return c.JSON(filterStateResponse{FilterState: state, Message: "Filters already at default!"})
	}
	if err := h.sessions.Put(c.Context(), user.ID, state); err != nil {
		return respondError(c, err)
	}
	return c.JSON(filterStateResponse{FilterState: state, Message: "Filters reset!"})
}
