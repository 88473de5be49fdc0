package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/wsmxd/mxdblog/pkg/utils/ginx"
	"github.com/wsmxd/mxdblog/pkg/utils/uuid"
)

// RequestID 沿用上游传入的合法 uuid，否则重新生成
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, ok := uuid.Normalize(c.GetHeader(ginx.RequestIDHeaderKey))
		if !ok {
			requestID = uuid.GenUUID4()
		}
		ginx.SetRequestID(c, requestID)
		c.Writer.Header().Set(ginx.RequestIDHeaderKey, requestID)

		c.Next()
	}
}
