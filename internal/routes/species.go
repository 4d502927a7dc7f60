package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/auth"
	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/middleware"
	"github.com/whale-spotting/whale_spotting/internal/species"
)

// RegisterSpeciesRoutes wires species endpoints: public listing, admin-only
// creation.
func RegisterSpeciesRoutes(r fiber.Router, h *species.Handler, tokens *auth.TokenService, optional fiber.Handler) {
	r.Get("/species", optional, h.List)
	r.Post("/species", middleware.RequireRole(tokens, domain.RoleAdmin), h.Create)
}
