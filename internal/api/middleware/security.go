package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders 安全 HTTP 头中间件
// 服务只返回 JSON 与下载文件，CSP 不允许加载任何资源；
// downloadPrefix 下的花名册导出含学生个人信息，额外禁止中间缓存与浏览器直接打开
func SecurityHeaders(downloadPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		if downloadPrefix != "" && strings.HasPrefix(c.Request.URL.Path, downloadPrefix) {
			c.Header("Cache-Control", "no-store, private")
			c.Header("Pragma", "no-cache")
			c.Header("X-Download-Options", "noopen")
		} else {
			c.Header("Cache-Control", "no-store")
		}

		c.Next()
	}
}
