package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// RequestID tags every request with a correlation id for log tracing.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// RegisterRoutes wires all API routes. User-scoped routes go first so the
// parameterized media-kind routes cannot shadow them.
func RegisterRoutes(app fiber.Router, dh *DiscoveryHandler, uh *UserHandler, fh *FilterHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", dh.Health)

	users := api.Group("/users/:tid")
	users.Put("", uh.EnsureUser)
	users.Get("/stats", uh.Stats)
	users.Get("/searches", uh.ListSearches)

	users.Get("/favorites", uh.ListFavorites)
	users.Post("/favorites", uh.AddFavorite)
	users.Delete("/favorites/:id", uh.RemoveFavorite)

	users.Get("/watched", uh.ListWatched)
	users.Post("/watched", uh.MarkWatched)
	users.Delete("/watched/:id", uh.UnmarkWatched)

	users.Get("/preferences", uh.GetPreferences)
	users.Put("/preferences", uh.UpdatePreferences)

	users.Get("/filters", fh.Get)
	users.Post("/filters/genres/:name", fh.ToggleGenre)
	users.Put("/filters/years", fh.SetYearRange)
	users.Put("/filters/rating", fh.SetMinRating)
	users.Post("/filters/reset", fh.Reset)

	users.Get("/:kind/search", dh.Search)
	users.Post("/:kind/discover", dh.Discover)
	users.Get("/:kind/recommendations", dh.Recommendations)
	users.Get("/:kind/details/:id", dh.Details)

	api.Get("/:kind/trending", dh.Trending)
	api.Get("/:kind/popular", dh.Popular)
}
