package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/identity"
)

// Handler exposes registration and login endpoints.
type Handler struct {
	ids    *identity.Service
	tokens *TokenService
}

// NewHandler builds the auth handler.
func NewHandler(ids *identity.Service, tokens *TokenService) *Handler {
	return &Handler{ids: ids, tokens: tokens}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string                `json:"token"`
	ExpiresIn int64                 `json:"expires_in"`
	User      identity.UserResponse `json:"user"`
}

// Register creates a new member account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	user, err := h.ids.Register(c.UserContext(), identity.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(identity.NewUserResponse(user))
}

// Login verifies credentials and issues a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	user, err := h.ids.Authenticate(c.UserContext(), identity.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		return err
	}
	token, exp, err := h.tokens.Issue(user)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		Token:     token,
		ExpiresIn: int64(time.Until(exp).Seconds()),
		User:      identity.NewUserResponse(user),
	})
}
