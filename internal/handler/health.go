package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness of the API and its two stores.
type HealthHandler struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check answers GET /healthz. The API itself is always "ok" when this runs;
// the store fields tell an operator which dependency is down.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx := c.Request().Context()

	mysql := "ok"
	if h.db == nil {
		mysql = "not configured"
	} else if err := h.db.PingContext(ctx); err != nil {
		mysql = err.Error()
	}

	redisStatus := "ok"
	if h.rdb == nil {
		redisStatus = "not configured"
	} else if err := h.rdb.Ping(ctx).Err(); err != nil {
		redisStatus = err.Error()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"mysql":  mysql,
		"redis":  redisStatus,
	})
}
