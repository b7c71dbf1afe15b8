package controllers

import (
	"context"
	"time"

	"smartess-http-service/internal/domain/services"
	"smartess-http-service/internal/domain/services/container"
	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/error/response"
	"smartess-http-service/internal/infrastructure/config"
	"smartess-http-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceWidgetController 定义仪表盘控制器接口
type InterfaceWidgetController interface {
	GetDashboardWidgets()
}

// WidgetController 处理仪表盘聚合请求
type WidgetController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewWidgetController 创建一个新的仪表盘控制器
func NewWidgetController(ctx *gin.Context, container *container.ServiceContainer) *WidgetController {
	return &WidgetController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleWidgetFunc 返回一个处理仪表盘请求的Gin处理函数
func HandleWidgetFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewWidgetController(ctx, container)

		switch method {
		case "getDashboardWidgets":
			controller.GetDashboardWidgets()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
		}
	}
}

// requestContext 按配置的聚合超时创建请求上下文
func requestContext(c *gin.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	return context.WithTimeout(c.Request.Context(), timeout)
}

// GetDashboardWidgets 获取当前用户的仪表盘聚合视图
// @Summary      Dashboard widgets
// @Description  Aggregate system overview, recent alerts and system health across all organizations of the current user
// @Tags         Widgets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.DashboardResponse  "Dashboard view"
// @Failure      401  {object}  response.ErrorBody  "Missing or invalid token"
// @Failure      404  {object}  response.ErrorBody  "No organizations found"
// @Failure      500  {object}  response.ErrorBody  "Upstream fetch failed"
// @Router       /widgets/dashboard [get]
func (c *WidgetController) GetDashboardWidgets() {
	email := c.Ctx.GetString("email")
	cfg := c.Container.GetService("config").(*config.Config)
	widgetService := c.Container.GetService("widget").(services.InterfaceWidgetService)

	ctx, cancel := requestContext(c.Ctx, cfg)
	defer cancel()

	result, stageErr := widgetService.GetDashboardWidgets(ctx, email)
	if stageErr != nil {
		logger.Warning("仪表盘聚合失败: email=%s stage=%s err=%v", email, stageErr.Stage, stageErr)
		response.Fail(c.Ctx, stageErr.Code)
		return
	}

	response.JSON(c.Ctx, result)
}
