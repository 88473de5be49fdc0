package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 通用错误响应体
type ErrorResponse struct {
	OK        bool   `json:"ok"`
	Code      int    `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"requestID,omitempty"`
}

// SetResp 为指定的 gin.Context 设置成功响应数据（建议 200 <= statusCode < 300），data 原样输出
func SetResp(c *gin.Context, statusCode int, data any) {
	// 204 状态码特殊处理
	if statusCode == http.StatusNoContent {
		c.Status(statusCode)
		return
	}
	c.JSON(statusCode, data)
}

// SetErrResp 为指定的 gin.Context 设置错误响应数据，同时记录错误供访问日志使用
func SetErrResp(c *gin.Context, statusCode, code int, err error) {
	SetError(c, err)
	c.JSON(statusCode, ErrorResponse{
		OK:        false,
		Code:      code,
		Error:     err.Error(),
		RequestID: GetRequestID(c),
	})
}
