package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wsmxd/mxdblog/pkg/envs"
	"github.com/wsmxd/mxdblog/pkg/handler"
	"github.com/wsmxd/mxdblog/pkg/middleware"
)

// New 初始化路由；registry 同时用于注册请求指标与暴露 /metrics
func New(h *handler.Handler, registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(envs.GinRunMode)
	router := gin.New()
	_ = router.SetTrustedProxies(nil)

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CanonicalHost(envs.CanonicalHost, envs.RedirectHosts))
	router.Use(middleware.Cors(envs.CorsAllowOrigins))
	router.Use(middleware.Metrics(registry))
	router.Use(gin.Recovery())

	// 404
	router.NoRoute(handler.Get404)
	// 探活 & 指标
	router.GET("healthz", handler.Healthz)
	router.GET("metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	// 阅读计数
	{
		router.POST("reads/:slug", h.RecordRead)
		router.GET("reads/:slug", h.GetRead)
		router.GET("stats", h.GetStats)
	}
	// 文章
	{
		router.GET("posts", h.ListPosts)
		router.GET("posts/:slug", h.RetrievePost)
	}
	// 排查计数存储配置
	router.GET("debug/kv", h.GetKVStatus)

	// 兼容旧版前端使用的路径
	{
		apiRg := router.Group("api")
		apiRg.POST("read/:slug", h.RecordRead)
		apiRg.GET("read/:slug", h.GetRead)
		apiRg.GET("stats", h.GetStats)
		apiRg.GET("posts", h.ListPosts)
		apiRg.GET("posts/:slug", h.RetrievePost)
		apiRg.GET("debug/upstash", h.GetKVStatus)
	}

	return router
}
