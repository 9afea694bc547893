package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/padelclub/court-auction/internal/ws"
)

const (
	wsReadLimit    = 512
	wsPongInterval = 60 * time.Second
)

// WSHandler upgrades club dashboards to a websocket that receives auction
// fanout in real time.
type WSHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboards are served from other origins in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve answers GET /v1/ws/clubs behind the CLUB role. The connection stays
// registered until the client closes it or a read fails.
func (h *WSHandler) Serve(c echo.Context) error {
	clubID := userIDFrom(c)
	if clubID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return nil
	}

	client := &ws.Client{
		ClubID: clubID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}
	h.hub.Register(client)

	// Read loop exists only to observe pongs and closure; clubs never send
	// anything meaningful upstream.
	go func() {
		defer h.hub.Unregister(client)
		conn.SetReadLimit(wsReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongInterval))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongInterval))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("ws: club %s connection dropped: %v", clubID, err)
				}
				return
			}
		}
	}()
	return nil
}
