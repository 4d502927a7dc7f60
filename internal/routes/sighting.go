package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/auth"
	"github.com/whale-spotting/whale_spotting/internal/middleware"
	"github.com/whale-spotting/whale_spotting/internal/sighting"
)

// RegisterSightingRoutes wires sighting endpoints: public reads and month
// aggregates, creation for any authenticated user.
func RegisterSightingRoutes(r fiber.Router, h *sighting.Handler, tokens *auth.TokenService, optional fiber.Handler) {
	r.Get("/sightings", optional, h.List)
	r.Get("/sightings/:sightingId", optional, h.Get)
	r.Get("/months", optional, h.Months)
	r.Post("/sightings", middleware.RequireAuth(tokens), h.Create)
}
