package routes

import (
	_ "smartess-http-service/docs"
	"smartess-http-service/internal/app/controllers"
	"smartess-http-service/internal/app/middleware"
	"smartess-http-service/internal/domain/services/container"
	"smartess-http-service/internal/infrastructure/config"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, nil)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	RegisterRoutes(r, serviceContainer)
	return r
}

// RegisterRoutes 配置所有API路由
func RegisterRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	cfg := container.GetConfig()

	// 添加IP限流中间件，限流参数来自配置
	api.Use(middleware.IPRateLimiter(cfg.RateLimitPublicRPS, cfg.RateLimitPublicBurst))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 兼容Docker健康检查的路由

	// 健康状态路由组，响应与用户无关，可走进程内缓存
	healthGroup := api.Group("/health")
	healthGroup.GET("/status", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Second}), controllers.HandleHealthFunc(container, "status"))
	healthGroup.GET("/cache-stats", controllers.HandleHealthFunc(container, "cacheStats"))

	// 登录端点按IP+路径单独收紧，抑制口令爆破
	api.POST("/auth/login", middleware.CombinedRateLimiter(1, 5), controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
// 聚合响应因用户而异，不挂响应缓存
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	cfg := container.GetConfig()

	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.VerifyToken())

	// 添加通用限流中间件，限流参数来自配置
	auth.Use(middleware.IPRateLimiter(cfg.RateLimitAuthRPS, cfg.RateLimitAuthBurst))

	// 仪表盘路由
	widgetsGroup := auth.Group("/widgets")
	widgetsGroup.GET("/dashboard", controllers.HandleWidgetFunc(container, "getDashboardWidgets"))

	// units路由
	unitsGroup := auth.Group("/units")
	unitsGroup.GET("/get-user-projects", controllers.HandleUnitsFunc(container, "getUserProjects"))

	// 监控路由
	surveillanceGroup := auth.Group("/surveillance")
	surveillanceGroup.GET("/get-user-projects", controllers.HandleSurveillanceFunc(container, "getUserProjects"))
}
