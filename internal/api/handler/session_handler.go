package handler

import (
	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/response"
)

// SessionHandler 课表 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// ListSessions 课表（按星期、开始时间排序）
// GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessionSvc.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, moduleSession, err)
		return
	}
	response.OK(c, sessions)
}

// CreateSession 新增课程时段（督导）
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	session, err := h.sessionSvc.Add(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, moduleSession, err)
		return
	}
	response.Created(c, session)
}

// UpdateSession 替换课程时段（督导）
// PUT /api/v1/sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	session, err := h.sessionSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, moduleSession, err)
		return
	}
	response.OK(c, session)
}

// DeleteSession 删除课程时段（督导）
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, moduleSession, err)
		return
	}
	response.OK(c, nil)
}

// ImportICS 导入 ICS 课表（督导）
// POST /api/v1/sessions/import
//
// 支持两种方式：
//   - 文件上传: multipart/form-data, field="file"
//   - 原始内容: Content-Type: text/calendar
func (h *SessionHandler) ImportICS(c *gin.Context) {
	body := c.Request.Body
	if file, _, err := c.Request.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	} else if c.ContentType() != "text/calendar" {
		response.BadRequest(c, moduleSession+1, "请上传 ICS 文件")
		return
	}

	sessions, err := h.sessionSvc.ImportICS(c.Request.Context(), body)
	if err != nil {
		handleServiceError(c, moduleSession, err)
		return
	}
	response.Created(c, dto.ImportICSResponse{ImportedCount: len(sessions), Sessions: sessions})
}
