package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pawfinder/web/internal/catalog"
)

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Catalog     string `json:"catalog"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:      "ok",
		Database:    "ok",
		Cache:       "ok",
		Catalog:     "ok",
		Environment: h.environment,
	}
	status := http.StatusOK

	if err := h.database.Ping(ctx); err != nil {
		resp.Database = "error"
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
		h.log.Error().Err(err).Msg("database ping failed")
	}

	if err := h.cache.Ping(ctx); err != nil {
		resp.Cache = "error"
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
		h.log.Error().Err(err).Msg("redis ping failed")
	}

	// Listings degrade without a token but accounts keep working.
	if state := h.tokens.State(); state != catalog.TokenValid {
		resp.Catalog = string(state)
		resp.Status = "degraded"
	}

	c.JSON(status, resp)
}

func (h HandlerSet) Welcome(c *gin.Context) {
	message(c, http.StatusOK, "Welcome!")
}
