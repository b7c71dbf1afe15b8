package controllers

import (
	"smartess-http-service/internal/domain/services"
	"smartess-http-service/internal/domain/services/container"
	"smartess-http-service/internal/error/code"
	"smartess-http-service/internal/error/response"
	"smartess-http-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@smartess.io"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法")
		}
	}
}

// Login 处理用户登录
// @Summary      User Login
// @Description  Verify email and password, return a JWT token carrying the user email
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  services.LoginResult  "Token and user profile"
// @Failure      400  {object}  response.ErrorBody  "Bad request"
// @Failure      401  {object}  response.ErrorBody  "Invalid credentials"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数")
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	result, err := jwtService.Login(req.Email, req.Password)
	if err != nil {
		logger.Warning("登录失败: email=%s err=%v", req.Email, err)
		response.Fail(c.Ctx, code.ErrLoginFailed)
		return
	}

	response.JSON(c.Ctx, result)
}
