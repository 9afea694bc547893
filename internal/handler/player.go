package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/middleware"
	"github.com/padelclub/court-auction/internal/model"
	"github.com/padelclub/court-auction/internal/repository"
	"github.com/padelclub/court-auction/internal/utils"
)

// PlayerHandler exposes player registration and profile access. Registration
// issues a PLAYER access token whose subject is the new player's id.
type PlayerHandler struct {
	players   *repository.PlayerRepo
	jwtSecret string
}

func NewPlayerHandler(players *repository.PlayerRepo, jwtSecret string) *PlayerHandler {
	return &PlayerHandler{players: players, jwtSecret: jwtSecret}
}

type playerRequest struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Category string `json:"category"`
}

// Register answers POST /v1/players.
func (h *PlayerHandler) Register(c echo.Context) error {
	var req playerRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	now := time.Now().UTC()
	player := &model.Player{
		ID:        uuid.NewString(),
		Name:      req.Name,
		City:      req.City,
		Category:  req.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.players.Create(c.Request().Context(), player); err != nil {
		return writeDomainErr(c, err)
	}

	tok, err := utils.NewAccessToken(h.jwtSecret, player.ID, middleware.RolePlayer, accessTokenTTLMin)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"player":       player,
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}

// Get answers GET /v1/players/:id.
func (h *PlayerHandler) Get(c echo.Context) error {
	player, err := h.players.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, player)
}

// Update answers PATCH /v1/players/:id. Players can only update their own
// profile.
func (h *PlayerHandler) Update(c echo.Context) error {
	if c.Param("id") != userIDFrom(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req playerRequest
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	player := &model.Player{
		ID:        userIDFrom(c),
		Name:      req.Name,
		City:      req.City,
		Category:  req.Category,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.players.Update(c.Request().Context(), player); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, player)
}
