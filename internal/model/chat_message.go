package model

import "time"

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage 助手对话记录，对应 chat_messages（只追加）
type ChatMessage struct {
	MessageID string    `gorm:"type:varchar(64);primaryKey"     json:"message_id"` // 时间戳派生
	OwnerID   string    `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Text      string    `gorm:"type:text;not null"              json:"text"`
	Sender    Sender    `gorm:"type:varchar(8);not null"        json:"sender"`
	Timestamp time.Time `gorm:"column:sent_at;not null"         json:"timestamp"`
}

// TableName 指定表名
func (ChatMessage) TableName() string { return "chat_messages" }
