package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/model"
	apperrors "emsi-portal/backend/pkg/errors"
	"emsi-portal/backend/pkg/response"
)

// 模块错误码基数：11 学生 12 班级 13 课表 14 缺勤申请 15 助手 16 导出
const (
	moduleStudent   = 11000
	moduleClass     = 12000
	moduleSession   = 13000
	moduleClaim     = 14000
	moduleAssistant = 15000
	moduleExport    = 16000
)

// MustGetPrincipal 从 Gin 上下文中提取 JWT 中间件注入的调用方身份。
// 缺失时写入 401 响应并返回 false，调用方应直接 return。
func MustGetPrincipal(c *gin.Context) (model.Principal, bool) {
	id := c.GetString("user_id")
	role := model.Role(c.GetString("role"))
	if id == "" || !role.Valid() {
		response.Unauthorized(c, 10002, "未认证")
		return model.Principal{}, false
	}
	return model.Principal{ID: id, Role: role}, true
}

// canAccessStudent 督导可访问任意学生，学生只能访问自己
func canAccessStudent(c *gin.Context, p model.Principal, studentID string) bool {
	if p.IsSupervisor() || p.ID == studentID {
		return true
	}
	response.Forbidden(c, 10003, "无权限访问")
	return false
}

// bindFailed 请求体/查询参数绑定失败
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", err.Error())
}

// handleServiceError 按错误类别映射 HTTP 状态与模块错误码
//
//	ErrValidation     → 400  module+1
//	ErrNotFound       → 404  module+4
//	ErrUnknownStudent → 422  module+22
func handleServiceError(c *gin.Context, module int, err error) {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		response.ErrorWithDetails(c, http.StatusBadRequest, module+1, "参数校验失败", ve.Field+": "+ve.Reason)
	case errors.Is(err, apperrors.ErrValidation):
		response.BadRequest(c, module+1, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, module+4, err.Error())
	case errors.Is(err, apperrors.ErrUnknownStudent):
		response.Unprocessable(c, module+22, "学生不在名册中", err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
