package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应体
// 申请接口带 type 字段，验证码接口只有 message
type ErrorBody struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message"`
}

// Response 统一响应信封
type Response struct {
	Status string     `json:"status"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// Success 返回成功信封
func Success(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Status: "success"})
}

// TypedError 返回带错误类型的失败信封，固定 400
func TypedError(c *gin.Context, errType, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Status: "error",
		Error:  &ErrorBody{Type: errType, Message: message},
	})
}

// MessageError 返回只含 message 的失败信封
func MessageError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Status: "error",
		Error:  &ErrorBody{Message: message},
	})
}
