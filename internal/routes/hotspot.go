package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/auth"
	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/hotspot"
	"github.com/whale-spotting/whale_spotting/internal/middleware"
)

// RegisterHotspotRoutes wires hotspot endpoints: public reads, admin-only
// creation.
func RegisterHotspotRoutes(r fiber.Router, h *hotspot.Handler, tokens *auth.TokenService, optional fiber.Handler) {
	r.Get("/hotspots", optional, h.List)
	r.Get("/hotspots/:hotspotId", optional, h.Get)
	r.Post("/hotspots", middleware.RequireRole(tokens, domain.RoleAdmin), h.Create)
}
