package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kickoffkings/draft-engine/internal/services"
	"github.com/kickoffkings/draft-engine/pkg/database"
)

type HealthHandler struct {
	db        *database.DB
	cache     *services.CacheService
	collector *services.CollectorService
	refresher *services.RefresherService
}

func NewHealthHandler(db *database.DB, cache *services.CacheService, collector *services.CollectorService, refresher *services.RefresherService) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cache,
		collector: collector,
		refresher: refresher,
	}
}

// GetHealth is the liveness probe. It returns 200 whenever the process is
// serving requests, regardless of dependency health.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "draft-engine",
		"time":    time.Now().UTC(),
	})
}

// GetReady is the readiness probe. Postgres and Redis must both answer; the
// collector circuit and refresher schedule are reported but do not gate
// readiness, because the engine can serve cached data without them.
func (h *HealthHandler) GetReady(c *gin.Context) {
	components := gin.H{}
	ready := true

	if err := h.db.HealthCheck(); err != nil {
		components["database"] = "unavailable"
		ready = false
	} else {
		components["database"] = "ok"
	}

	if err := h.cache.Ping(c.Request.Context()); err != nil {
		components["redis"] = "unavailable"
		ready = false
	} else {
		components["redis"] = "ok"
	}

	components["collector_circuit"] = h.collector.CircuitState()
	if h.refresher != nil {
		components["refresher"] = h.refresher.Status()
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}

	c.JSON(status, gin.H{
		"status":     state,
		"components": components,
	})
}
