package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"emsi-portal/backend/pkg/metrics"
)

// Metrics 请求计数与耗时中间件
// route 使用路由模板（/students/:id），未匹配路由记为 unmatched，避免标签基数膨胀
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
