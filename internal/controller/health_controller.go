package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary 健康检查
// @Description 检查数据库和 Redis 状态
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{}
	healthy := true

	if sqlDB, err := c.DB.DB(); err != nil || sqlDB.PingContext(reqCtx) != nil {
		components["database"] = "down"
		healthy = false
	} else {
		components["database"] = "up"
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(reqCtx).Err(); err != nil {
			components["redis"] = "down"
			healthy = false
		} else {
			components["redis"] = "up"
		}
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "degraded",
			"components": components,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"components": components,
	})
}
