package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/wsmxd/mxdblog/pkg/common/errcode"
	"github.com/wsmxd/mxdblog/pkg/infras/kvstore"
	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/model"
	"github.com/wsmxd/mxdblog/pkg/service/reads"
	"github.com/wsmxd/mxdblog/pkg/utils/ginx"
)

// ReadService 阅读计数
type ReadService interface {
	RecordRead(ctx context.Context, slug string, amount int64) (model.ReadCount, error)
	GetRead(ctx context.Context, slug string) (model.ReadCount, error)
	GetStats(ctx context.Context) model.Stats
}

// PostService 文章数据
type PostService interface {
	ListPosts(category, tag string) model.Posts
	GetPost(slug string) *model.Post
}

// KVStatus 计数存储配置状态（仅用于排查，不包含任何凭证）
type KVStatus struct {
	Backend  string
	HasURL   bool
	HasToken bool
}

// Handler ...
type Handler struct {
	reads ReadService
	posts PostService
	kv    KVStatus
}

// New ...
func New(readSvc ReadService, postSvc PostService, kv KVStatus) *Handler {
	return &Handler{reads: readSvc, posts: postSvc, kv: kv}
}

// 将业务错误映射为 HTTP 状态码与错误码
func (h *Handler) setErrResp(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, errcode.Unknown
	switch {
	case errors.Is(err, reads.ErrInvalidSlug), errors.Is(err, reads.ErrInvalidAmount):
		status, code = http.StatusBadRequest, errcode.InvalidArgument
	case errors.Is(err, kvstore.ErrStoreUnavailable):
		code = errcode.StoreUnavailable
	case errors.Is(err, kvstore.ErrStore):
		code = errcode.StoreError
	}

	if status >= http.StatusInternalServerError {
		logging.GetWebLogger().WithField("requestID", ginx.GetRequestID(c)).
			WithError(err).Errorf("%s %s failed", c.Request.Method, c.Request.URL.Path)
	}
	ginx.SetErrResp(c, status, code, err)
}
