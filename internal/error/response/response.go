package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartess-http-service/internal/error/code"
)

// ErrorBody 定义错误响应格式
// 仪表盘前端只识别 {"error": "..."} 形式的错误体
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON 成功响应，直接输出DTO本体
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Fail 失败响应，状态码和消息由错误码决定
func Fail(c *gin.Context, errorCode int) {
	c.JSON(code.GetStatus(errorCode), ErrorBody{Error: code.GetMessage(errorCode)})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	c.JSON(code.GetStatus(errorCode), ErrorBody{Error: message})
}

// AbortFail 失败响应并中断后续处理，用于中间件
func AbortFail(c *gin.Context, errorCode int) {
	c.AbortWithStatusJSON(code.GetStatus(errorCode), ErrorBody{Error: code.GetMessage(errorCode)})
}

// ServerError 服务器错误响应
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown)
}
