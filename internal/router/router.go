package router // route registration for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/handler"
	"github.com/padelclub/court-auction/internal/middleware"
)

// RegisterHealth registers the unauthenticated health check. Load balancers
// and monitoring probe this endpoint.
func RegisterHealth(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Check)
}

// RegisterPublic registers the unauthenticated browse endpoints:
// registration for both identities plus club and court lookups guests can
// use before signing up.
func RegisterPublic(e *echo.Echo, clubs *handler.ClubHandler, courts *handler.CourtHandler, players *handler.PlayerHandler) {
	e.POST("/v1/players", players.Register)
	e.POST("/v1/clubs", clubs.Register)

	e.GET("/v1/clubs", clubs.List)
	e.GET("/v1/clubs/nearby", clubs.Nearby)
	e.GET("/v1/clubs/:id", clubs.Get)
	e.GET("/v1/clubs/:id/courts", courts.ListByClub)
	e.GET("/v1/courts/:id", courts.Get)
}

// RegisterProtected registers every endpoint behind JWT auth. Routes are
// split again by role: players run the auction and booking lifecycle, clubs
// claim auctions, manage courts and hold the websocket feed. rateLimit wraps
// the contested write paths.
func RegisterProtected(
	e *echo.Echo,
	jwtSecret string,
	rateLimit echo.MiddlewareFunc,
	auctions *handler.AuctionHandler,
	bookings *handler.BookingHandler,
	courts *handler.CourtHandler,
	players *handler.PlayerHandler,
	wsh *handler.WSHandler,
) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Read endpoints shared by both roles.
	auth.GET("/auctions", auctions.List)
	auth.GET("/auctions/:id", auctions.Get)
	auth.GET("/players/:id", players.Get)
	auth.GET("/availability", bookings.Availability)

	player := auth.Group("", middleware.RequireRole(middleware.RolePlayer))
	player.POST("/auctions", auctions.Create, rateLimit)
	player.DELETE("/auctions/:id", auctions.Cancel)
	player.POST("/auctions/:id/join", auctions.Join)
	player.POST("/auctions/:id/leave", auctions.Leave)
	player.POST("/bookings", bookings.Create, rateLimit)
	player.POST("/bookings/:id/confirm", bookings.Confirm)
	player.GET("/my-bookings", bookings.List)
	player.GET("/bookings/:id", bookings.Get)
	player.DELETE("/bookings/:id", bookings.Cancel)
	player.PATCH("/players/:id", players.Update)

	club := auth.Group("", middleware.RequireRole(middleware.RoleClub))
	club.POST("/auctions/:id/claim", auctions.Claim, rateLimit)
	club.POST("/clubs/:id/courts", courts.Create)
	club.PATCH("/courts/:id", courts.Update)
	club.GET("/ws/clubs", wsh.Serve)
}
