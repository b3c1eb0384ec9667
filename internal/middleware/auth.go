package middleware

import (
	"strings"

	"skillstreak_backend/internal/config"
	"skillstreak_backend/internal/util"
	"skillstreak_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bearerPrefix = "bearer "

// AuthMiddleware 校验 Bearer 令牌，失败一律 401，不会降级为游客
func AuthMiddleware(auth config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(header[len(bearerPrefix):])

		claims, err := util.ParseJWT(tokenString, auth)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
