package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/wsmxd/mxdblog/pkg/common/errcode"
	"github.com/wsmxd/mxdblog/pkg/utils/ginx"
	"github.com/wsmxd/mxdblog/pkg/version"
)

// GetKVStatus 计数存储配置状态，只暴露是否配置，不暴露具体值
func (h *Handler) GetKVStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"kv_env_present": h.kv.HasURL && h.kv.HasToken,
		"hasUrl":         h.kv.HasURL,
		"hasToken":       h.kv.HasToken,
		"backend":        h.kv.Backend,
	})
}

// Healthz ...
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Version})
}

// Get404 ...
func Get404(c *gin.Context) {
	ginx.SetErrResp(c, http.StatusNotFound, errcode.NotFound, errors.Errorf("%s not found", c.Request.URL.Path))
}
