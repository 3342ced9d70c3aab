package model

import "time"

// NotificationIntent 审核后产生的通知意图
// 核心只产出意图，短信/邮件投递由外部协作方负责
type NotificationIntent struct {
	StudentID string      `json:"student_id"`
	ClaimID   string      `json:"claim_id"`
	Status    ClaimStatus `json:"status"`
	Message   string      `json:"message,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
