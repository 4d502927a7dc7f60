package hotspot

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

// Handler exposes hotspot endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the hotspot handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type hotspotResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	SightingCount int       `json:"sightingCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func newHotspotResponse(h WithCount) hotspotResponse {
	return hotspotResponse{
		ID:            h.ID,
		Name:          h.Name,
		Latitude:      h.Latitude,
		Longitude:     h.Longitude,
		SightingCount: h.SightingCount,
		CreatedAt:     h.CreatedAt,
	}
}

// List returns hotspots, optionally filtered by the search query parameter.
func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	resp := make([]hotspotResponse, 0, len(out))
	for _, hs := range out {
		resp = append(resp, newHotspotResponse(hs))
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// Get returns a single hotspot with its sighting count.
func (h *Handler) Get(c *fiber.Ctx) error {
	hs, err := h.svc.GetByID(c.UserContext(), c.Params("hotspotId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(newHotspotResponse(hs))
}

type createRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Create adds a hotspot. Admin only; enforced at the route layer.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	hs, err := h.svc.Create(c.UserContext(), CreateInput{Name: req.Name, Latitude: req.Latitude, Longitude: req.Longitude})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(newHotspotResponse(WithCount{Hotspot: hs}))
}
