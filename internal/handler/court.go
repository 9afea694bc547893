package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/model"
	"github.com/padelclub/court-auction/internal/repository"
)

// CourtHandler lets clubs manage their courts. The authenticated club id
// always comes from the token, never from the payload, so a club can only
// touch its own courts.
type CourtHandler struct {
	courts *repository.CourtRepo
}

func NewCourtHandler(courts *repository.CourtRepo) *CourtHandler {
	return &CourtHandler{courts: courts}
}

type courtRequest struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	Indoor          bool   `json:"indoor"`
	BasePriceCents  uint32 `json:"base_price_cents"`
	SlotDurationMin uint32 `json:"slot_duration_min"`
	Active          *bool  `json:"active"`
}

// Create answers POST /v1/clubs/:id/courts. The path club must be the
// authenticated club.
func (h *CourtHandler) Create(c echo.Context) error {
	if c.Param("id") != userIDFrom(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req courtRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	now := time.Now().UTC()
	court := &model.Court{
		ID:              uuid.NewString(),
		ClubID:          userIDFrom(c),
		Name:            req.Name,
		Type:            req.Type,
		Indoor:          req.Indoor,
		BasePriceCents:  req.BasePriceCents,
		SlotDurationMin: req.SlotDurationMin,
		Active:          active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := h.courts.Create(c.Request().Context(), court); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, court)
}

// Get answers GET /v1/courts/:id.
func (h *CourtHandler) Get(c echo.Context) error {
	court, err := h.courts.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, court)
}

// ListByClub answers GET /v1/clubs/:id/courts.
func (h *CourtHandler) ListByClub(c echo.Context) error {
	courts, err := h.courts.ListByClub(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"courts": courts})
}

// Update answers PATCH /v1/courts/:id. Updating a court owned by another
// club yields 403.
func (h *CourtHandler) Update(c echo.Context) error {
	var req courtRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	court := &model.Court{
		ID:              c.Param("id"),
		Name:            req.Name,
		Type:            req.Type,
		Indoor:          req.Indoor,
		BasePriceCents:  req.BasePriceCents,
		SlotDurationMin: req.SlotDurationMin,
		Active:          active,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := h.courts.Update(c.Request().Context(), court, userIDFrom(c)); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "updated"})
}
