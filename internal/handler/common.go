// Package handler contains the HTTP endpoints. Handlers bind and validate
// request payloads, call into the service layer, and translate domain errors
// into HTTP status codes.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/lock"
	"github.com/padelclub/court-auction/internal/model"
	"github.com/padelclub/court-auction/internal/repository"
)

// Access tokens issued on registration are valid this long.
const accessTokenTTLMin = 60

// userIDFrom returns the authenticated subject stored by the JWT middleware,
// or "" when the route is unprotected.
func userIDFrom(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeDomainErr maps the domain sentinel errors onto HTTP responses. Every
// handler funnels its service errors through here so the status mapping
// stays in one place.
func writeDomainErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrAuctionNotFound),
		errors.Is(err, model.ErrBookingNotFound),
		errors.Is(err, model.ErrClubNotFound),
		errors.Is(err, model.ErrCourtNotFound),
		errors.Is(err, model.ErrPlayerNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrAlreadyClaimed),
		errors.Is(err, model.ErrSlotConflict),
		errors.Is(err, model.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, lock.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "try again later"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// parseRFC3339 parses a required RFC 3339 timestamp query or body value.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
