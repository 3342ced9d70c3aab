package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/pkg/jwt"
	"emsi-portal/backend/pkg/response"
)

// AuthHandler 身份相关 HTTP 处理器
// 凭据校验由外部认证方完成，这里只提供开发用 Token 与当前身份查询
type AuthHandler struct {
	jwtMgr     *jwt.Manager
	ttl        time.Duration
	devEnabled bool
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(jwtMgr *jwt.Manager, ttl time.Duration, devEnabled bool) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr, ttl: ttl, devEnabled: devEnabled}
}

// DevToken 签发开发用 Token（feature.dev_token_enabled 关闭时返回 404）
// POST /api/v1/auth/dev-token
func (h *AuthHandler) DevToken(c *gin.Context) {
	if !h.devEnabled {
		response.NotFound(c, 10404, "接口未开启")
		return
	}

	var req dto.DevTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	token, err := h.jwtMgr.GenerateAccessToken(req.UserID, req.Role)
	if err != nil {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	response.OK(c, dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(h.ttl.Seconds()),
		Principal:   model.Principal{ID: req.UserID, Role: model.Role(req.Role)},
	})
}

// Me 当前调用方身份
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	response.OK(c, p)
}
