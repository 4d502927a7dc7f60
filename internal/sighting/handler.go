package sighting

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/middleware"
)

// Handler exposes sighting endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the sighting handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type sightingResponse struct {
	ID        string    `json:"id"`
	SpeciesID string    `json:"speciesId"`
	HotspotID string    `json:"hotspotId"`
	UserID    string    `json:"userId"`
	SightedAt time.Time `json:"sightedAt"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newSightingResponse(s Sighting) sightingResponse {
	return sightingResponse{
		ID:        s.ID,
		SpeciesID: s.SpeciesID,
		HotspotID: s.HotspotID,
		UserID:    s.UserID,
		SightedAt: s.SightedAt,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
}

type createRequest struct {
	SpeciesID string `json:"speciesId"`
	HotspotID string `json:"hotspotId"`
	SightedAt string `json:"sightedAt"`
	Notes     string `json:"notes"`
}

// Create records a sighting for the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	input := CreateInput{
		SpeciesID: req.SpeciesID,
		HotspotID: req.HotspotID,
		UserID:    claims.Subject,
		Notes:     req.Notes,
	}
	if req.SightedAt != "" {
		sightedAt, err := time.Parse(time.RFC3339, req.SightedAt)
		if err != nil {
			return fmt.Errorf("%w: sightedAt must be RFC 3339", domain.ErrInvalidInput)
		}
		input.SightedAt = sightedAt
	}

	s, err := h.svc.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(newSightingResponse(s))
}

// Get returns a single sighting.
func (h *Handler) Get(c *fiber.Ctx) error {
	s, err := h.svc.GetByID(c.UserContext(), c.Params("sightingId"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(newSightingResponse(s))
}

// List returns sightings filtered by the query parameters speciesId,
// hotspotId, hotspot (name search), from, and to.
func (h *Handler) List(c *fiber.Ctx) error {
	q := Query{
		SpeciesID:   c.Query("speciesId"),
		HotspotID:   c.Query("hotspotId"),
		HotspotName: c.Query("hotspot"),
	}
	if v := c.Query("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("%w: from must be RFC 3339", domain.ErrInvalidInput)
		}
		q.From = from
	}
	if v := c.Query("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("%w: to must be RFC 3339", domain.ErrInvalidInput)
		}
		q.To = to
	}

	out, err := h.svc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	resp := make([]sightingResponse, 0, len(out))
	for _, s := range out {
		resp = append(resp, newSightingResponse(s))
	}
	return c.Status(http.StatusOK).JSON(resp)
}

type monthResponse struct {
	Month int    `json:"month"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Months returns the sighting count per calendar month.
func (h *Handler) Months(c *fiber.Ctx) error {
	months, err := h.svc.Months(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]monthResponse, 0, len(months))
	for _, m := range months {
		resp = append(resp, monthResponse{Month: int(m.Month), Name: m.Month.String(), Count: m.Count})
	}
	return c.Status(http.StatusOK).JSON(resp)
}
