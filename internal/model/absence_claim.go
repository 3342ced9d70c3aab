package model

// ClaimStatus 缺勤申请状态
type ClaimStatus string

const (
	ClaimPending     ClaimStatus = "pending"
	ClaimJustified   ClaimStatus = "justified"
	ClaimUnjustified ClaimStatus = "unjustified"
)

// ClaimStatuses 全部状态（统计输出顺序）
var ClaimStatuses = []ClaimStatus{ClaimPending, ClaimJustified, ClaimUnjustified}

// Valid 是否为已知状态
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimPending, ClaimJustified, ClaimUnjustified:
		return true
	}
	return false
}

// IsDecision 是否为审核结论（pending 不是结论）
func (s ClaimStatus) IsDecision() bool {
	return s == ClaimJustified || s == ClaimUnjustified
}

// AbsenceClaim 缺勤申请表，对应 absence_claims
// 只能以 pending 创建；审核后在 justified / unjustified 之间可复审，永不回到 pending，不删除
type AbsenceClaim struct {
	ClaimID     string      `gorm:"type:varchar(36);primaryKey"         json:"claim_id"`
	StudentID   string      `gorm:"type:varchar(36);not null;index"     json:"student_id"` // 弱引用，不随学生删除
	Subject     string      `gorm:"type:varchar(100);not null"          json:"subject"`
	Date        string      `gorm:"type:varchar(10);not null"           json:"date"` // YYYY-MM-DD
	Time        string      `gorm:"type:varchar(16);not null"           json:"time"`
	Status      ClaimStatus `gorm:"type:varchar(16);not null;index"     json:"status"`
	Reason      string      `gorm:"type:varchar(100)"                   json:"reason,omitempty"`
	Description string      `gorm:"type:text"                           json:"description,omitempty"`
	DocumentRef string      `gorm:"type:varchar(500)"                   json:"document_ref,omitempty"`
	SubmittedOn string      `gorm:"type:varchar(10)"                    json:"submitted_on,omitempty"`
	ReviewedOn  string      `gorm:"type:varchar(10)"                    json:"reviewed_on,omitempty"`
	BaseModel
}

// TableName 指定表名
func (AbsenceClaim) TableName() string { return "absence_claims" }
