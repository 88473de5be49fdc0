package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wsmxd/mxdblog/pkg/utils/ginx"
)

// count 兼容数字与数字字符串（如 "3"）
type recordReadRequest struct {
	Count json.Number `json:"count"`
}

// RecordRead 记录一次阅读
func (h *Handler) RecordRead(c *gin.Context) {
	amount := h.parseAmount(c)
	count, err := h.reads.RecordRead(c.Request.Context(), c.Param("slug"), amount)
	if err != nil {
		h.setErrResp(c, err)
		return
	}
	ginx.SetResp(c, http.StatusOK, count)
}

// 请求体缺失、格式错误、count 不是整数或为 0 都按 1 计数，负数交由 service 校验
func (h *Handler) parseAmount(c *gin.Context) int64 {
	var req recordReadRequest
	if err := ginx.DecodeJSONBody(c.Request, &req); err != nil {
		return 1
	}
	amount, err := req.Count.Int64()
	if err != nil || amount == 0 {
		return 1
	}
	return amount
}

// GetRead 查询阅读数
func (h *Handler) GetRead(c *gin.Context) {
	count, err := h.reads.GetRead(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.setErrResp(c, err)
		return
	}
	ginx.SetResp(c, http.StatusOK, count)
}

// GetStats 全站阅读数汇总，总是返回 200
func (h *Handler) GetStats(c *gin.Context) {
	ginx.SetResp(c, http.StatusOK, h.reads.GetStats(c.Request.Context()))
}
