package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthHandler reports process and database health.
type HealthHandler struct {
	ping func(ctx context.Context) error
	log  *zap.Logger
}

// NewHealthHandler creates a HealthHandler. A nil ping means the service runs
// on the in-memory store.
func NewHealthHandler(ping func(ctx context.Context) error, log *zap.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, log: log}
}

// RegisterRoutes registers GET /health.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth pings the database and answers 503 when it is unreachable.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	overall := "healthy"
	database := "memory"

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.log.Warn("health check: database unreachable", zap.Error(err))
			status = fiber.StatusServiceUnavailable
			overall = "unhealthy"
			database = "unreachable"
		} else {
			database = "ok"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"time":   time.Now().Format(time.RFC3339),
		"checks": fiber.Map{
			"database": database,
		},
	})
}
