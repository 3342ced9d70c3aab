package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"emsi-portal/backend/internal/model"
)

// Notifier 通知意图投递端口
// 台账只产出意图，投递（短信/邮件）由外部消费者完成
type Notifier interface {
	Publish(ctx context.Context, intent model.NotificationIntent) error
}

// ── LogNotifier ──

// LogNotifier 仅记录日志的投递实现（默认）
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建 LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Publish(_ context.Context, intent model.NotificationIntent) error {
	n.logger.Info("通知意图",
		zap.String("student_id", intent.StudentID),
		zap.String("claim_id", intent.ClaimID),
		zap.String("status", string(intent.Status)),
		zap.String("message", intent.Message),
	)
	return nil
}

// ── QueueNotifier ──

// Enqueuer 队列写入能力（*redis.Client 满足）
type Enqueuer interface {
	Enqueue(ctx context.Context, key string, payload []byte) error
}

// QueueNotifier 将意图序列化为 JSON 写入 Redis 列表，由外部 worker 消费
type QueueNotifier struct {
	queue Enqueuer
	key   string
}

// NewQueueNotifier 创建 QueueNotifier
func NewQueueNotifier(queue Enqueuer, key string) *QueueNotifier {
	return &QueueNotifier{queue: queue, key: key}
}

func (n *QueueNotifier) Publish(ctx context.Context, intent model.NotificationIntent) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("序列化通知意图失败: %w", err)
	}
	if err := n.queue.Enqueue(ctx, n.key, payload); err != nil {
		return fmt.Errorf("通知意图入队失败: %w", err)
	}
	return nil
}
