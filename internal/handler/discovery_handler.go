package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"moviemate/internal/presenter"
	"moviemate/internal/service"
	"moviemate/internal/session"
)

// DiscoveryHandler exposes the search and discovery pipeline to the
// messaging front-end.
type DiscoveryHandler struct {
	discovery *service.DiscoveryService
	users     *service.UserService
	sessions  session.Store
	presenter *presenter.Presenter
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(
	discovery *service.DiscoveryService,
	users *service.UserService,
	sessions session.Store,
	pres *presenter.Presenter,
) *DiscoveryHandler {
	return &DiscoveryHandler{
		discovery: discovery,
		users:     users,
		sessions:  sessions,
		presenter: pres,
	}
}

// listResult carries a result page plus an optional notice, so an empty
// result reads as "no matches" rather than as a failure.
type listResult struct {
	presenter.Page
	Message string `json:"message,omitempty"`
}

func listJSON(c fiber.Ctx, page presenter.Page, emptyMessage string) error {
	result := listResult{Page: page}
	if page.Count == 0 {
		result.Message = emptyMessage
	}
	return c.JSON(result)
}

// Search handles GET /users/:tid/:kind/search?q=...&year=...
func (h *DiscoveryHandler) Search(c fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	year, _ := strconv.Atoi(c.Query("year"))
	results, err := h.discovery.Search(c.Context(), user.ID, kind, c.Query("q"), year)
	if err != nil {
		return respondError(c, err)
	}

	return listJSON(c, presenter.BuildPage(results), "No results found. Try a different title.")
}

// Discover handles POST /users/:tid/:kind/discover, executing the user's
// accumulated filter session.
func (h *DiscoveryHandler) Discover(c fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	state, err := h.sessions.Get(c.Context(), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	results, err := h.discovery.DiscoverWithFilters(c.Context(), user.ID, kind, state)
	if err != nil {
		return respondError(c, err)
	}

	return listJSON(c, presenter.BuildPage(results), "No matches for your filters. Try adjusting your criteria!")
}

// Recommendations handles GET /users/:tid/:kind/recommendations
func (h *DiscoveryHandler) Recommendations(c fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	results, err := h.discovery.Recommendations(c.Context(), user.ID, kind)
	if err != nil {
		return respondError(c, err)
	}

	return listJSON(c, presenter.BuildPage(results), "Nothing to recommend right now.")
}

// Details handles GET /users/:tid/:kind/details/:id. The flags are
// resolved fresh on every call.
func (h *DiscoveryHandler) Details(c fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}
	user, err := resolveUser(c.Context(), c, h.users)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.discovery.Details(c.Context(), kind, id)
	if err != nil {
		return respondError(c, err)
	}

	view, err := h.presenter.Details(c.Context(), user.ID, detail)
	if err != nil {
		return respondError(c, err)
	}

	// Trailer lookup is best-effort; a missing trailer is not a failure.
	if url, err := h.discovery.TrailerURL(c.Context(), kind, id); err == nil {
		view.TrailerURL = url
	}

	return c.JSON(view)
}

// Trending handles GET /:kind/trending?window=day|week
func (h *DiscoveryHandler) Trending(c fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	results, err := h.discovery.Trending(c.Context(), kind, c.Query("window", "week"))
	if err != nil {
		return respondError(c, err)
	}

	return listJSON(c, presenter.BuildPage(results), "Nothing trending right now.")
}

// Popular handles GET /:kind/popular
func (h *DiscoveryHandler) Popular(c fiber.Ctx) error {
	kind, err := parseKind(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidInput})
	}

	results, err := h.discovery.Popular(c.Context(), kind)
	if err != nil {
		return respondError(c, err)
	}

	return listJSON(c, presenter.BuildPage(results), "Nothing popular right now.")
}

// Health returns service health status.
func (h *DiscoveryHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "moviemate",
	})
}
