package handler

import (
	"github.com/gin-gonic/gin"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/projection"
	"emsi-portal/backend/internal/service"
	"emsi-portal/backend/pkg/response"
)

// ClaimHandler 缺勤台账 HTTP 处理器
type ClaimHandler struct {
	ledgerSvc service.LedgerService
}

// NewClaimHandler 创建 ClaimHandler
func NewClaimHandler(ledgerSvc service.LedgerService) *ClaimHandler {
	return &ClaimHandler{ledgerSvc: ledgerSvc}
}

// SubmitClaim 提交缺勤申请
// POST /api/v1/claims
// 学生身份提交时忽略请求体中的 student_id
func (h *ClaimHandler) SubmitClaim(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if !p.IsSupervisor() {
		req.StudentID = p.ID
	}

	claim, err := h.ledgerSvc.SubmitClaim(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, moduleClaim, err)
		return
	}
	response.Created(c, claim)
}

// ListClaims 申请列表（条件为 AND，学生只能看到自己的申请）
// GET /api/v1/claims?search=&status=&class_id=&student_id=
func (h *ClaimHandler) ListClaims(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var req dto.ClaimListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if !p.IsSupervisor() {
		req.StudentID = p.ID
		req.ClassID = ""
	}

	claims, err := h.ledgerSvc.Filter(c.Request.Context(), service.ClaimFilter{
		Search:    req.Search,
		Status:    req.Status,
		ClassID:   req.ClassID,
		StudentID: req.StudentID,
	})
	if err != nil {
		handleServiceError(c, moduleClaim, err)
		return
	}
	response.OK(c, claims)
}

// GetClaim 申请详情
// GET /api/v1/claims/:id
func (h *ClaimHandler) GetClaim(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	claim, err := h.ledgerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, moduleClaim, err)
		return
	}
	if !canAccessStudent(c, p, claim.StudentID) {
		return
	}
	response.OK(c, claim)
}

// CountClaims 按状态计数（学生只统计自己的申请）
// GET /api/v1/claims/counts
func (h *ClaimHandler) CountClaims(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	if p.IsSupervisor() {
		counts, err := h.ledgerSvc.CountByStatus(c.Request.Context())
		if err != nil {
			handleServiceError(c, moduleClaim, err)
			return
		}
		response.OK(c, counts)
		return
	}

	own, err := h.ledgerSvc.ListByStudent(c.Request.Context(), p.ID)
	if err != nil {
		handleServiceError(c, moduleClaim, err)
		return
	}
	response.OK(c, projection.CountByStatus(own))
}

// ReviewClaim 审核（督导）
// PUT /api/v1/claims/:id/review
func (h *ClaimHandler) ReviewClaim(c *gin.Context) {
	var req dto.ReviewClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	res, err := h.ledgerSvc.ReviewClaim(c.Request.Context(), c.Param("id"), model.ClaimStatus(req.Decision))
	if err != nil {
		handleServiceError(c, moduleClaim, err)
		return
	}
	response.OK(c, res)
}

// NotifyStudent 督导附言通知（督导）
// POST /api/v1/claims/:id/notify
func (h *ClaimHandler) NotifyStudent(c *gin.Context) {
	var req dto.NotifyClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	intent, err := h.ledgerSvc.Notify(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		handleServiceError(c, moduleClaim, err)
		return
	}
	response.OK(c, intent)
}
