package handler

import (
	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/response"
)

// StudentHandler 花名册学生 HTTP 处理器
type StudentHandler struct {
	rosterSvc service.RosterService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(rosterSvc service.RosterService) *StudentHandler {
	return &StudentHandler{rosterSvc: rosterSvc}
}

// ListStudents 学生列表（督导）
// GET /api/v1/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	students, err := h.rosterSvc.ListStudents(c.Request.Context())
	if err != nil {
		handleServiceError(c, moduleStudent, err)
		return
	}
	response.OK(c, students)
}

// GetStudent 学生详情（督导或本人）
// GET /api/v1/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !canAccessStudent(c, p, id) {
		return
	}

	student, err := h.rosterSvc.GetStudent(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, moduleStudent, err)
		return
	}
	response.OK(c, student)
}

// CreateStudent 新增学生（督导）
// POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	student, err := h.rosterSvc.AddStudent(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, moduleStudent, err)
		return
	}
	response.Created(c, student)
}

// UpdateStudent 编辑学生（督导）
// PATCH /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	student, err := h.rosterSvc.UpdateStudent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, moduleStudent, err)
		return
	}
	response.OK(c, student)
}

// DeleteStudent 删除学生（督导）
// DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	if err := h.rosterSvc.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, moduleStudent, err)
		return
	}
	response.OK(c, nil)
}

// UpdateProfile 更新联系方式（督导或本人）
// PATCH /api/v1/students/:id/profile
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !canAccessStudent(c, p, id) {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	student, err := h.rosterSvc.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, moduleStudent, err)
		return
	}
	response.OK(c, student)
}

// UpdatePicture 更新头像引用（督导或本人）
// PUT /api/v1/students/:id/picture
func (h *StudentHandler) UpdatePicture(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if !canAccessStudent(c, p, id) {
		return
	}

	var req dto.UpdatePictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	student, err := h.rosterSvc.UpdatePicture(c.Request.Context(), id, req.ProfileImage)
	if err != nil {
		handleServiceError(c, moduleStudent, err)
		return
	}
	response.OK(c, student)
}
