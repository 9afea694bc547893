package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/service"
)

// BookingHandler exposes direct court bookings.
type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	CourtID   string `json:"court_id"`
	StartTime string `json:"start_time"` // RFC 3339
	EndTime   string `json:"end_time"`   // RFC 3339
}

// Create answers POST /v1/bookings. The booking is created PENDING and must
// be confirmed before the slot is considered sold, though both states block
// overlapping bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil || req.CourtID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}
	start, err := parseRFC3339(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time, use RFC 3339"})
	}
	end, err := parseRFC3339(req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_time, use RFC 3339"})
	}

	booking, err := h.bookings.Create(c.Request().Context(), service.CreateBookingInput{
		CourtID:   req.CourtID,
		UserID:    userIDFrom(c),
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// Confirm answers POST /v1/bookings/:id/confirm.
func (h *BookingHandler) Confirm(c echo.Context) error {
	booking, err := h.bookings.Confirm(c.Request().Context(), c.Param("id"), userIDFrom(c))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Get answers GET /v1/bookings/:id. Users only see their own bookings.
func (h *BookingHandler) Get(c echo.Context) error {
	booking, err := h.bookings.Get(c.Request().Context(), c.Param("id"), userIDFrom(c))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// List answers GET /v1/my-bookings and returns the caller's bookings.
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.bookings.ListByUser(c.Request().Context(), userIDFrom(c))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Cancel answers DELETE /v1/bookings/:id.
func (h *BookingHandler) Cancel(c echo.Context) error {
	if err := h.bookings.Cancel(c.Request().Context(), c.Param("id"), userIDFrom(c)); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}

// Availability answers GET /v1/availability?court_id=...&start=...&end=...
// with whether the window is free of active bookings.
func (h *BookingHandler) Availability(c echo.Context) error {
	courtID := c.QueryParam("court_id")
	if courtID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "court_id is required"})
	}
	start, err := parseRFC3339(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start, use RFC 3339"})
	}
	end, err := parseRFC3339(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end, use RFC 3339"})
	}

	available, err := h.bookings.CheckAvailability(c.Request().Context(), courtID, start, end)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"court_id": courtID, "available": available})
}
