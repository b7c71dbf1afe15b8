package controllers

import (
	"context"
	"time"

	"smartess-http-service/internal/app/middleware"
	"smartess-http-service/internal/domain/services"
	"smartess-http-service/internal/domain/services/container"
	"smartess-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Container: container}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(container)

		switch method {
		case "ping":
			controller.Ping(ctx)
		case "status":
			controller.Status(ctx)
		case "cacheStats":
			controller.CacheStats(ctx)
		default:
			controller.Ping(ctx)
		}
	}
}

// Ping 健康检查端点
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.JSON(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 报告各依赖组件的健康状态
func (h *HealthCheckController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	dbStatus := "up"
	poolStats := gin.H{}
	if sqlDB, err := h.Container.GetDB().DB(); err != nil {
		dbStatus = "down"
	} else {
		if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "down"
		}
		stats := sqlDB.Stats()
		poolStats = gin.H{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration":        stats.WaitDuration.String(),
		}
	}

	redisStatus := "up"
	redisService := h.Container.GetService("redis").(services.InterfaceRedisService)
	if err := redisService.Ping(ctx); err != nil {
		redisStatus = "down"
	}

	mqttStatus := "disabled"
	ingest := h.Container.GetService("alert_ingest").(services.InterfaceAlertIngestService)
	if h.Container.GetConfig().MQTTEnabled {
		if ingest.IsHealthy() {
			mqttStatus = "up"
		} else {
			mqttStatus = "down"
		}
	}

	response.JSON(c, gin.H{
		"database": dbStatus,
		"redis":    redisStatus,
		"mqtt":     mqttStatus,
		"pool":     poolStats,
	})
}

// CacheStats 报告进程内响应缓存统计
func (h *HealthCheckController) CacheStats(c *gin.Context) {
	response.JSON(c, middleware.CacheStats())
}
