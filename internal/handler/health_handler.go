package handler

import (
	"net/http"
	"time"

	"evote-api/internal/container"
	"evote-api/pkg/database"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
	db        *database.PostgresDB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container, db *database.PostgresDB) *HealthHandler {
	return &HealthHandler{
		container: container,
		db:        db,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Database  string    `json:"database"`
	Cache     string    `json:"cache"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.container.GetLogger()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "evote-api",
		Database:  "up",
		Cache:     "up",
	}

	status := http.StatusOK

	if err := h.db.Health(ctx); err != nil {
		logger.WithError(err).Error("Database health check failed")
		response.Status = "degraded"
		response.Database = "down"
		status = http.StatusServiceUnavailable
	}

	redisClient := h.container.GetRedisClient()
	if redisClient == nil {
		response.Cache = "not configured"
	} else if err := redisClient.Health(ctx); err != nil {
		logger.WithError(err).Warn("Redis health check failed")
		response.Cache = "down"
		// Cache is optional; a Redis outage degrades but does not fail the service
		if response.Status == "healthy" {
			response.Status = "degraded"
		}
	}

	respondJSON(w, status, response)
}
