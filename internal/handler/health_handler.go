package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether every named database answers a ping
type HealthHandler struct {
	dbs     map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(dbs map[string]Pinger) *HealthHandler {
	return &HealthHandler{dbs: dbs, timeout: 2 * time.Second}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for name, db := range h.dbs {
		if err := db.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("db", name).Msg("health check failed")
			status = http.StatusServiceUnavailable
			body["status"] = "error"
			body[name] = "unhealthy"
			continue
		}
		body[name] = "healthy"
	}
	c.JSON(status, body)
}
