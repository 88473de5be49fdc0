package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CanonicalHost 将来自 redirectHosts（如托管平台的默认域名）的请求永久跳转到正式域名
func CanonicalHost(canonicalHost string, redirectHosts []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if canonicalHost == "" || !lo.Contains(redirectHosts, c.Request.Host) {
			c.Next()
			return
		}

		target := url.URL{
			Scheme:   "https",
			Host:     canonicalHost,
			Path:     c.Request.URL.Path,
			RawQuery: c.Request.URL.RawQuery,
		}
		c.Redirect(http.StatusPermanentRedirect, target.String())
		c.Abort()
	}
}
