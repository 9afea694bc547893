package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/service"
)

// AuctionHandler exposes the auction lifecycle: players open, join, leave
// and cancel auctions; clubs claim them.
type AuctionHandler struct {
	auctions *service.AuctionService
	claims   *service.ClaimService
}

func NewAuctionHandler(auctions *service.AuctionService, claims *service.ClaimService) *AuctionHandler {
	return &AuctionHandler{auctions: auctions, claims: claims}
}

type createAuctionRequest struct {
	PlayerIDs []string `json:"player_ids"`
	City      string   `json:"city"`
	Date      string   `json:"date"` // YYYY-MM-DD
	Time      string   `json:"time"` // HH:MM
	Category  string   `json:"category"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
}

// Create answers POST /v1/auctions. The caller becomes the group lead; any
// extra player ids in the payload join behind them.
func (h *AuctionHandler) Create(c echo.Context) error {
	var req createAuctionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, use YYYY-MM-DD"})
	}

	playerIDs := append([]string{userIDFrom(c)}, req.PlayerIDs...)
	auction, err := h.auctions.Create(c.Request().Context(), service.CreateAuctionInput{
		PlayerIDs: dedupe(playerIDs),
		City:      req.City,
		Date:      date,
		Time:      req.Time,
		Category:  req.Category,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, auction)
}

// List answers GET /v1/auctions and returns every open auction.
func (h *AuctionHandler) List(c echo.Context) error {
	auctions, err := h.auctions.ListOpen(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"auctions": auctions})
}

// Get answers GET /v1/auctions/:id.
func (h *AuctionHandler) Get(c echo.Context) error {
	auction, err := h.auctions.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, auction)
}

type claimRequest struct {
	CourtID string `json:"court_id"`
}

// Claim answers POST /v1/auctions/:id/claim. The authenticated club races
// every other club for the auction; exactly one wins.
func (h *AuctionHandler) Claim(c echo.Context) error {
	var req claimRequest
	if err := c.Bind(&req); err != nil || req.CourtID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "court_id is required"})
	}

	booking, err := h.claims.Claim(c.Request().Context(), c.Param("id"), userIDFrom(c), req.CourtID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking_id": booking.ID, "booking": booking})
}

// Cancel answers DELETE /v1/auctions/:id. Lead players only.
func (h *AuctionHandler) Cancel(c echo.Context) error {
	auction, err := h.auctions.Cancel(c.Request().Context(), c.Param("id"), userIDFrom(c))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, auction)
}

// Join answers POST /v1/auctions/:id/join.
func (h *AuctionHandler) Join(c echo.Context) error {
	auction, err := h.auctions.Join(c.Request().Context(), c.Param("id"), userIDFrom(c))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, auction)
}

// Leave answers POST /v1/auctions/:id/leave.
func (h *AuctionHandler) Leave(c echo.Context) error {
	auction, err := h.auctions.Leave(c.Request().Context(), c.Param("id"), userIDFrom(c))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, auction)
}

// dedupe preserves order while dropping repeated ids, so a lead who also
// lists themselves does not appear twice.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
