package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/wsmxd/mxdblog/pkg/common/errcode"
	"github.com/wsmxd/mxdblog/pkg/utils/ginx"
)

// ListPosts 文章列表（不含正文），支持按分类 / 标签过滤
func (h *Handler) ListPosts(c *gin.Context) {
	ginx.SetResp(c, http.StatusOK, h.posts.ListPosts(c.Query("category"), c.Query("tag")))
}

// RetrievePost 文章详情
func (h *Handler) RetrievePost(c *gin.Context) {
	slug := c.Param("slug")
	post := h.posts.GetPost(slug)
	if post == nil {
		ginx.SetErrResp(c, http.StatusNotFound, errcode.NotFound, errors.Errorf("Post not found: %s", slug))
		return
	}
	ginx.SetResp(c, http.StatusOK, post)
}
