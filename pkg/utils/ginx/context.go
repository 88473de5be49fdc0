package ginx

import (
	"github.com/gin-gonic/gin"

	"github.com/wsmxd/mxdblog/pkg/envs"
)

const (
	// RequestIDKey ...
	RequestIDKey = "requestID"
	// ErrorKey ...
	ErrorKey = "error"
)

// GetRequestID ...
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// SetRequestID ...
func SetRequestID(c *gin.Context, requestID string) {
	c.Set(RequestIDKey, requestID)
}

// GetError 获取 Handler 手动设置的错误（供访问日志使用）
func GetError(c *gin.Context) (error, bool) {
	value, ok := c.Get(ErrorKey)
	if !ok {
		return nil, false
	}
	err, ok := value.(error)
	return err, ok && err != nil
}

// SetError ...
func SetError(c *gin.Context, err error) {
	c.Set(ErrorKey, err)
}

// GetClientIP 获取客户端 IP，优先使用反向代理透传的 Header
func GetClientIP(c *gin.Context) string {
	if envs.RealClientIPHeaderKey != "" {
		if ip := c.GetHeader(envs.RealClientIPHeaderKey); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}
