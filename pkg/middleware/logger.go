package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/TencentBlueKing/gopkg/stringx"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/utils/ginx"
)

// 请求 / 响应体在日志中的最大长度
const maxLoggedBodySize = 1024

// 探活与指标采集请求量大且无排查价值，不记录访问日志
var skipLogPaths = []string{"/healthz", "/metrics"}

// 记录响应体副本，仅在出错时写入日志
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write ...
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Logger 访问日志：5xx 记为 error，4xx 记为 warn，其余为 info
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if lo.Contains(skipLogPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		var reqBody string
		if body, err := ginx.ReadRequestBody(c.Request); err == nil {
			reqBody = stringx.Truncate(string(body), maxLoggedBodySize)
		}
		writer := &bodyLogWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"route":     c.FullPath(),
			"params":    stringx.Truncate(c.Request.URL.RawQuery, maxLoggedBodySize),
			"reqBody":   reqBody,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"requestID": ginx.GetRequestID(c),
			"clientIP":  ginx.GetClientIP(c),
		}
		if errMsg, ok := requestError(c); ok {
			fields["error"] = errMsg
			fields["respBody"] = stringx.Truncate(writer.body.String(), maxLoggedBodySize)
		}

		entry := logging.GetAccessLogger().WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("-")
		case status >= http.StatusBadRequest:
			entry.Warn("-")
		default:
			entry.Info("-")
		}
	}
}

// 以 Handler 手动设置的错误为主，否则检查 c.Errors
func requestError(c *gin.Context) (string, bool) {
	if err, ok := ginx.GetError(c); ok {
		return err.Error(), true
	}
	if len(c.Errors) > 0 {
		return c.Errors.String(), true
	}
	return "", false
}
