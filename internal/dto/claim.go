package dto

// ── 缺勤台账 DTO ──

// SubmitClaimRequest 提交缺勤申请
// 学生身份提交时 StudentID 取自认证信息，请求体中的值被忽略
type SubmitClaimRequest struct {
	StudentID   string `json:"student_id"`
	Subject     string `json:"subject"      binding:"required,max=100"`
	Date        string `json:"date"         binding:"required"` // YYYY-MM-DD
	Time        string `json:"time"         binding:"omitempty,max=16"` // 缺省 00:00
	Reason      string `json:"reason"       binding:"omitempty,max=100"`
	Description string `json:"description"  binding:"omitempty,max=2000"`
	DocumentRef string `json:"document_ref" binding:"omitempty,max=500"`
}

// ReviewClaimRequest 督导审核
type ReviewClaimRequest struct {
	Decision string `json:"decision" binding:"required,oneof=justified unjustified"`
}

// NotifyClaimRequest 督导手动通知学生
type NotifyClaimRequest struct {
	Message string `json:"message" binding:"required,max=500"`
}

// ClaimListRequest 申请列表筛选参数（条件之间为 AND）
type ClaimListRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"     binding:"omitempty,oneof=all pending justified unjustified"`
	ClassID   string `form:"class_id"`
	StudentID string `form:"student_id"`
}
