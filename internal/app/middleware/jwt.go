package middleware

import (
	"strings"

	"smartess-http-service/internal/domain/services"
	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/error/response"
	"smartess-http-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// SetAuthService 替换认证服务实例，主要用于测试注入
func SetAuthService(svc services.InterfaceJWTService) {
	jwtService = svc
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// VerifyToken 验证请求携带的token并将用户email放入上下文
// 缺少token与token无效是两种不同的错误消息，客户端依赖该区分
func VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortFail(c, code.ErrNoToken)
			return
		}

		tokenString := extractToken(authHeader)
		if tokenString == "" {
			response.AbortFail(c, code.ErrNoToken)
			return
		}

		email, err := jwtService.ResolveTokenEmail(tokenString)
		if err != nil || email == "" {
			response.AbortFail(c, code.ErrTokenInvalid)
			return
		}

		// 下游聚合全部以email为入口键
		c.Set("email", email)
		c.Next()
	}
}
