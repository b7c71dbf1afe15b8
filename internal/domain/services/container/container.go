package container

import (
	"context"
	"log"
	"sync"
	"time"

	"smartess-http-service/internal/domain/services"
	"smartess-http-service/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService services.InterfaceRedisService

	// 告警接入服务
	alertIngestService services.InterfaceAlertIngestService

	// 业务服务
	widgetService       services.InterfaceWidgetService
	unitsService        services.InterfaceUnitsService
	surveillanceService services.InterfaceSurveillanceService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// NewTestContainer 构造一个不初始化任何服务的空容器，
// 测试方通过ReplaceService按需注入桩实现
func NewTestContainer(cfg *config.Config) *ServiceContainer {
	return &ServiceContainer{config: cfg}
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)

	// 初始化Redis服务
	c.redisService = services.NewRedisService(c.config)

	// 初始化告警接入服务
	c.alertIngestService = services.NewAlertIngestService(c.db, c.config, c.redisService)

	// 连接MQTT服务器（按开关决定，连接失败不影响HTTP服务启动）
	if c.config.MQTTEnabled {
		if err := c.alertIngestService.Connect(); err != nil {
			log.Printf("MQTT服务连接失败: %v", err)
		}
	}

	// 初始化业务服务，统一走RecordStore查询入口
	store := services.NewRecordStore(c.db)
	c.widgetService = services.NewWidgetService(store, c.config)
	c.unitsService = services.NewUnitsService(store, c.config)
	c.surveillanceService = services.NewSurveillanceService(store, c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "alert_ingest":
		return c.alertIngestService
	case "widget":
		return c.widgetService
	case "units":
		return c.unitsService
	case "surveillance":
		return c.surveillanceService
	default:
		return nil
	}
}

// ReplaceService 替换容器中的服务实例，主要用于测试注入
func (c *ServiceContainer) ReplaceService(name string, svc interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "jwt":
		c.jwtService = svc.(services.InterfaceJWTService)
	case "redis":
		c.redisService = svc.(services.InterfaceRedisService)
	case "alert_ingest":
		c.alertIngestService = svc.(services.InterfaceAlertIngestService)
	case "widget":
		c.widgetService = svc.(services.InterfaceWidgetService)
	case "units":
		c.unitsService = svc.(services.InterfaceUnitsService)
	case "surveillance":
		c.surveillanceService = svc.(services.InterfaceSurveillanceService)
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// GetConfig 获取配置
func (c *ServiceContainer) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// GetRedisClient 获取Redis客户端
func (c *ServiceContainer) GetRedisClient() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redis
}
