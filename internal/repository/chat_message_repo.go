package repository

import (
	"context"

	"gorm.io/gorm"

	"emsi-portal/backend/internal/model"
)

// ChatMessageRepository 助手对话记录访问接口（只追加）
type ChatMessageRepository interface {
	Append(ctx context.Context, msg *model.ChatMessage) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.ChatMessage, error)
}

type chatMessageRepo struct {
	db *gorm.DB
}

// NewChatMessageRepo 创建 ChatMessageRepository 实例
func NewChatMessageRepo(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepo{db: db}
}

func (r *chatMessageRepo) Append(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatMessageRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("rowid ASC").
		Find(&msgs).Error
	return msgs, err
}
