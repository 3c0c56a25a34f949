package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/internal/service"
	"github.com/procert/registry-backend/pkg/storage"
)

type HealthHandler struct {
	db        *gorm.DB
	store     storage.Storage
	analytics *service.AnalyticsService
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, store storage.Storage, analytics *service.AnalyticsService) *HealthHandler {
	return &HealthHandler{
		db:        db,
		store:     store,
		analytics: analytics,
		startedAt: time.Now(),
	}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

func (h *HealthHandler) HealthDetailed(c *fiber.Ctx) error {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.PingContext(c.Context()); err != nil {
		dbStatus = "error: " + err.Error()
	}

	resp := fiber.Map{
		"status":      "ok",
		"uptime":      time.Since(h.startedAt).String(),
		"database":    dbStatus,
		"storageType": h.store.Type(),
	}
	if dbStatus != "ok" {
		resp["status"] = "degraded"
	}

	if summary, err := h.analytics.Summary(); err == nil {
		resp["counts"] = summary
	}

	return c.JSON(resp)
}

// AnalyticsSummary is the admin dashboard's headline numbers endpoint.
func (h *HealthHandler) AnalyticsSummary(c *fiber.Ctx) error {
	summary, err := h.analytics.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SuccessResponse(summary, ""))
}
