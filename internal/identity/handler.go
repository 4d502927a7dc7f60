package identity

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

// Handler exposes admin-only user management endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the user management handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List returns every registered user.
func (h *Handler) List(c *fiber.Ctx) error {
	users, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return c.Status(http.StatusOK).JSON(out)
}

type profileImageRequest struct {
	ProfileImageURL string `json:"profileImageUrl"`
}

// UpdateProfileImage resets a user's profile picture. An empty URL restores
// the default image.
func (h *Handler) UpdateProfileImage(c *fiber.Ctx) error {
	var req profileImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	user, err := h.svc.UpdateProfileImage(c.UserContext(), c.Params("userId"), req.ProfileImageURL)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(NewUserResponse(user))
}

// Delete removes a user account.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
