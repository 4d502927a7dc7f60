package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/auth"
	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/identity"
	"github.com/whale-spotting/whale_spotting/internal/middleware"
)

// RegisterUserRoutes wires the admin-only user management endpoints.
func RegisterUserRoutes(r fiber.Router, h *identity.Handler, tokens *auth.TokenService) {
	admin := r.Group("/users", middleware.RequireRole(tokens, domain.RoleAdmin))
	admin.Get("/", h.List)
	admin.Patch("/:userId/profile-image", h.UpdateProfileImage)
	admin.Delete("/:userId", h.Delete)
}
