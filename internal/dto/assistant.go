package dto

import (
	"emsi-portal/backend/internal/assistant"
	"emsi-portal/backend/internal/model"
)

// ── 助手模块 DTO ──

// SendMessageRequest 发送消息
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// SendMessageResponse 发送结果
// 机器人消息按配置延迟写入对话记录，Reply 为此刻计算出的回复内容
type SendMessageResponse struct {
	Message model.ChatMessage `json:"message"`
	Reply   assistant.Reply   `json:"reply"`
}

// ── 开发用认证 DTO ──

// DevTokenRequest 签发开发 Token
type DevTokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role"    binding:"required,oneof=student supervisor"`
}
