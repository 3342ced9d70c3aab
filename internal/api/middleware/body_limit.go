package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"emsi-portal/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// maxBytes <= 0 时不限制；ICS 上传与 JSON 请求共用同一上限
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.Writer.Written() {
			return
		}
		for _, ginErr := range c.Errors {
			var tooLarge *http.MaxBytesError
			if errors.As(ginErr.Err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
