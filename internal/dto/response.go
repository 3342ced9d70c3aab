package dto

import (
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/projection"
)

// ── 缺勤台账响应 ──

// ReviewClaimResponse 审核结果（申请 + 通知意图）
type ReviewClaimResponse struct {
	Claim        model.AbsenceClaim       `json:"claim"`
	Notification model.NotificationIntent `json:"notification"`
}

// ClaimCountsResponse 按状态计数
type ClaimCountsResponse = projection.StatusCounts

// ── 课表响应 ──

// ImportICSResponse ICS 导入响应
type ImportICSResponse struct {
	ImportedCount int                   `json:"imported_count"`
	Sessions      []model.CourseSession `json:"sessions"`
}

// ── 认证响应 ──

// TokenResponse 开发用 Token 响应
type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int             `json:"expires_in"` // 有效期（秒）
	Principal   model.Principal `json:"principal"`
}
