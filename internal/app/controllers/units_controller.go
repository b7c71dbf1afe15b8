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

// InterfaceUnitsController 定义units控制器接口
type InterfaceUnitsController interface {
	GetUserProjects()
}

// UnitsController 处理units列表聚合请求
type UnitsController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUnitsController 创建一个新的units控制器
func NewUnitsController(ctx *gin.Context, container *container.ServiceContainer) *UnitsController {
	return &UnitsController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleUnitsFunc 返回一个处理units请求的Gin处理函数
func HandleUnitsFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUnitsController(ctx, container)

		switch method {
		case "getUserProjects":
			controller.GetUserProjects()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
		}
	}
}

// GetUserProjects 获取当前用户各项目下的units完整列表
// @Summary      User projects with units
// @Description  List all projects of the current user with per-unit owner, members and ticket statistics
// @Tags         Units
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  services.ProjectListResponse  "Projects with units"
// @Failure      401  {object}  response.ErrorBody  "Missing or invalid token"
// @Failure      404  {object}  response.ErrorBody  "User not found"
// @Failure      500  {object}  response.ErrorBody  "Upstream fetch failed"
// @Router       /units/get-user-projects [get]
func (c *UnitsController) GetUserProjects() {
	email := c.Ctx.GetString("email")
	cfg := c.Container.GetService("config").(*config.Config)
	unitsService := c.Container.GetService("units").(services.InterfaceUnitsService)

	ctx, cancel := requestContext(c.Ctx, cfg)
	defer cancel()

	result, stageErr := unitsService.GetUserProjects(ctx, email)
	if stageErr != nil {
		logger.Warning("units聚合失败: email=%s stage=%s err=%v", email, stageErr.Stage, stageErr)
		response.Fail(c.Ctx, stageErr.Code)
		return
	}

	response.JSON(c.Ctx, result)
}
