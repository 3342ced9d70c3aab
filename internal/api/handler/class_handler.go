package handler

import (
	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/response"
)

// ClassHandler 班级 HTTP 处理器
type ClassHandler struct {
	rosterSvc service.RosterService
}

// NewClassHandler 创建 ClassHandler
func NewClassHandler(rosterSvc service.RosterService) *ClassHandler {
	return &ClassHandler{rosterSvc: rosterSvc}
}

// ListClasses 班级列表
// GET /api/v1/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.rosterSvc.ListClasses(c.Request.Context())
	if err != nil {
		handleServiceError(c, moduleClass, err)
		return
	}
	response.OK(c, classes)
}

// GetClass 班级详情
// GET /api/v1/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	class, err := h.rosterSvc.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, moduleClass, err)
		return
	}
	response.OK(c, class)
}

// CreateClass 新建班级（督导）
// POST /api/v1/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	class, err := h.rosterSvc.CreateClass(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, moduleClass, err)
		return
	}
	response.Created(c, class)
}

// SetMembers 整体替换成员（督导）
// PUT /api/v1/classes/:id/members
func (h *ClassHandler) SetMembers(c *gin.Context) {
	var req dto.SetClassMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	class, err := h.rosterSvc.SetClassMembers(c.Request.Context(), c.Param("id"), req.StudentIDs)
	if err != nil {
		handleServiceError(c, moduleClass, err)
		return
	}
	response.OK(c, class)
}

// AddMember 追加成员（督导）
// POST /api/v1/classes/:id/members
func (h *ClassHandler) AddMember(c *gin.Context) {
	var req dto.AddClassMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	class, err := h.rosterSvc.AddClassMember(c.Request.Context(), c.Param("id"), req.StudentID)
	if err != nil {
		handleServiceError(c, moduleClass, err)
		return
	}
	response.OK(c, class)
}
