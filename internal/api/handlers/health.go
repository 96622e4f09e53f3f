package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/services"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
)

type HealthHandler struct {
	db          *database.DB
	cache       *services.CacheService
	dataFetcher *services.DataFetcherService
}

func NewHealthHandler(db *database.DB, cache *services.CacheService, dataFetcher *services.DataFetcherService) *HealthHandler {
	return &HealthHandler{
		db:          db,
		cache:       cache,
		dataFetcher: dataFetcher,
	}
}

// GetHealth returns liveness plus dependency status. Always 200 while the
// process is serving; degraded dependencies are reported, not fatal.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	cacheStatus := "disabled"
	if h.cache.Enabled() {
		cacheStatus = "ok"
	}

	status := gin.H{
		"status":   "ok",
		"service":  "nrl-fantasy-edge",
		"time":     time.Now().UTC(),
		"database": dbStatus,
		"cache":    cacheStatus,
	}
	if h.dataFetcher != nil {
		status["fetcher"] = h.dataFetcher.FetchStatus()
	}

	c.JSON(http.StatusOK, status)
}
