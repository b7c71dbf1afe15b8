package controllers

import (
	"smartess-http-service/internal/domain/services"
	"smartess-http-service/internal/domain/services/container"
	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/error/response"
	"smartess-http-service/internal/infrastructure/config"
	"smartess-http-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceSurveillanceController 定义监控控制器接口
type InterfaceSurveillanceController interface {
	GetUserProjects()
}

// SurveillanceController 处理监控视图聚合请求
type SurveillanceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewSurveillanceController 创建一个新的监控控制器
func NewSurveillanceController(ctx *gin.Context, container *container.ServiceContainer) *SurveillanceController {
	return &SurveillanceController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleSurveillanceFunc 返回一个处理监控请求的Gin处理函数
func HandleSurveillanceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewSurveillanceController(ctx, container)

		switch method {
		case "getUserProjects":
			controller.GetUserProjects()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
		}
	}
}

// GetUserProjects 获取当前用户各项目下带摄像头状态的units列表
// @Summary      Surveillance view
// @Description  List all projects of the current user with per-unit camera status for the surveillance screen
// @Tags         Surveillance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.SurveillanceListResponse  "Projects with camera status"
// @Failure      401  {object}  response.ErrorBody  "Missing or invalid token"
// @Failure      404  {object}  response.ErrorBody  "User not found"
// @Failure      500  {object}  response.ErrorBody  "Upstream fetch failed"
// @Router       /surveillance/get-user-projects [get]
func (c *SurveillanceController) GetUserProjects() {
	email := c.Ctx.GetString("email")
	cfg := c.Container.GetService("config").(*config.Config)
	surveillanceService := c.Container.GetService("surveillance").(services.InterfaceSurveillanceService)

	ctx, cancel := requestContext(c.Ctx, cfg)
	defer cancel()

	result, stageErr := surveillanceService.GetUserProjects(ctx, email)
	if stageErr != nil {
		logger.Warning("监控聚合失败: email=%s stage=%s err=%v", email, stageErr.Stage, stageErr)
		response.Fail(c.Ctx, stageErr.Code)
		return
	}

	response.JSON(c.Ctx, result)
}
