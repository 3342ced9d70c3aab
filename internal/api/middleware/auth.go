package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/pkg/jwt"
	"emsi-portal/backend/pkg/response"
)

// 上下文键
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取 Principal，服务端只信任 user_id 与 role
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if !model.Role(claims.Role).Valid() {
			response.Unauthorized(c, 10002, "Token 角色无效")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前调用方是否具有指定角色之一
func RoleAuth(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if role == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if model.Role(role) == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}
