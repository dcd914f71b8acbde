package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type IHealthController interface {
	Root(ctx *gin.Context)
	Health(ctx *gin.Context)
}

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) IHealthController {
	return &HealthController{db: db}
}

func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "AI Test Case Generator API with Auth is running!"})
}

func (c *HealthController) Health(ctx *gin.Context) {
	status, health, dbStatus := http.StatusOK, "healthy", "ok"

	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := c.ping(pingCtx); err != nil {
		_ = ctx.Error(err)
		status, health, dbStatus = http.StatusServiceUnavailable, "unhealthy", "unavailable"
	}

	ctx.JSON(status, gin.H{
		"status":    health,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"db":        dbStatus,
	})
}

func (c *HealthController) ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
