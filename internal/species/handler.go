package species

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

// Handler exposes species endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the species handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type speciesResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func newSpeciesResponse(sp Species) speciesResponse {
	return speciesResponse{ID: sp.ID, Name: sp.Name, CreatedAt: sp.CreatedAt}
}

// List returns every species.
func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]speciesResponse, 0, len(out))
	for _, sp := range out {
		resp = append(resp, newSpeciesResponse(sp))
	}
	return c.Status(http.StatusOK).JSON(resp)
}

type createRequest struct {
	Name string `json:"name"`
}

// Create adds a species. Admin only; enforced at the route layer.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	sp, err := h.svc.Create(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(newSpeciesResponse(sp))
}
