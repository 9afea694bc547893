package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/middleware"
	"github.com/padelclub/court-auction/internal/model"
	"github.com/padelclub/court-auction/internal/repository"
	"github.com/padelclub/court-auction/internal/utils"
)

// ClubHandler exposes club registration and lookup. Registration issues a
// CLUB access token whose subject is the new club's id.
type ClubHandler struct {
	clubs     *repository.ClubRepo
	jwtSecret string
}

func NewClubHandler(clubs *repository.ClubRepo, jwtSecret string) *ClubHandler {
	return &ClubHandler{clubs: clubs, jwtSecret: jwtSecret}
}

type registerClubRequest struct {
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Register answers POST /v1/clubs.
func (h *ClubHandler) Register(c echo.Context) error {
	var req registerClubRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coordinates"})
	}

	now := time.Now().UTC()
	club := &model.Club{
		ID:        uuid.NewString(),
		Name:      req.Name,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.clubs.Create(c.Request().Context(), club); err != nil {
		return writeDomainErr(c, err)
	}

	tok, err := utils.NewAccessToken(h.jwtSecret, club.ID, middleware.RoleClub, accessTokenTTLMin)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"club":         club,
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}

// List answers GET /v1/clubs.
func (h *ClubHandler) List(c echo.Context) error {
	clubs, err := h.clubs.List(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"clubs": clubs})
}

// Get answers GET /v1/clubs/:id.
func (h *ClubHandler) Get(c echo.Context) error {
	club, err := h.clubs.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, club)
}

// Nearby answers GET /v1/clubs/nearby?lat=..&lon=..&radius_km=..
func (h *ClubHandler) Nearby(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lat"})
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lon"})
	}
	radius := 10.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil || radius <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid radius_km"})
		}
	}

	clubs, err := h.clubs.FindNearby(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"clubs": clubs})
}
