package service

import (
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"emsi-portal/backend/internal/assistant"
	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/repository"
	apperrors "emsi-portal/backend/pkg/errors"
	"emsi-portal/backend/pkg/metrics"
)

// AssistantService 助手对话业务接口
type AssistantService interface {
	// Send 追加用户消息并立即计算回复，机器人消息经调度器延迟写入对话记录
	Send(ctx context.Context, principal model.Principal, text string) (*dto.SendMessageResponse, error)
	// History 当前调用方的对话记录（按时间顺序）
	History(ctx context.Context, principal model.Principal) ([]model.ChatMessage, error)
}

// AssistantConfig 助手服务参数
type AssistantConfig struct {
	ReplyDelay time.Duration
}

type assistantService struct {
	repo      *repository.Repository
	lock      *StoreLock
	responder *assistant.Responder
	scheduler Scheduler
	cfg       AssistantConfig
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
	seq       atomic.Uint64
}

// NewAssistantService 创建 AssistantService 实例
func NewAssistantService(
	repo *repository.Repository,
	lock *StoreLock,
	responder *assistant.Responder,
	scheduler Scheduler,
	cfg AssistantConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) AssistantService {
	if lock == nil {
		lock = NewStoreLock()
	}
	if responder == nil {
		responder = assistant.NewResponder(assistant.DefaultOptions())
	}
	if scheduler == nil {
		scheduler = ImmediateScheduler{}
	}
	return &assistantService{
		repo:      repo,
		lock:      lock,
		responder: responder,
		scheduler: scheduler,
		cfg:       cfg,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// ────────────────────── Send ──────────────────────

func (s *assistantService) Send(ctx context.Context, principal model.Principal, text string) (*dto.SendMessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Invalid("text", "不能为空")
	}
	if principal.ID == "" || !principal.Role.Valid() {
		return nil, apperrors.Invalid("principal", "身份无效")
	}

	userMsg := s.newMessage(principal.ID, text, model.SenderUser)
	if err := s.repo.ChatMessage.Append(ctx, userMsg); err != nil {
		s.logger.Error("写入用户消息失败", zap.String("owner_id", principal.ID), zap.Error(err))
		return nil, err
	}

	snap, err := s.snapshot(ctx, principal)
	if err != nil {
		return nil, err
	}
	reply := s.responder.Respond(text, snap)
	s.metrics.AssistantReplied(string(reply.Category))

	// 回复内容此刻已确定，延迟的只是落库；请求结束后 ctx 可能已取消，故使用独立 ctx
	ownerID := principal.ID
	s.scheduler.After(s.cfg.ReplyDelay, func() {
		botMsg := s.newMessage(ownerID, reply.Text, model.SenderBot)
		if err := s.repo.ChatMessage.Append(context.Background(), botMsg); err != nil {
			s.logger.Error("写入助手回复失败", zap.String("owner_id", ownerID), zap.Error(err))
		}
	})

	return &dto.SendMessageResponse{Message: *userMsg, Reply: reply}, nil
}

// snapshot 在读锁下一次性读取各集合，保证回复基于一致状态
func (s *assistantService) snapshot(ctx context.Context, principal model.Principal) (assistant.Snapshot, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	snap := assistant.Snapshot{Principal: principal, Now: s.now()}
	var err error
	if snap.Claims, err = s.repo.AbsenceClaim.List(ctx); err != nil {
		s.logger.Error("助手快照读取申请失败", zap.Error(err))
		return snap, err
	}
	if snap.Students, err = s.repo.Student.List(ctx); err != nil {
		s.logger.Error("助手快照读取学生失败", zap.Error(err))
		return snap, err
	}
	if snap.Classes, err = s.repo.ClassGroup.List(ctx); err != nil {
		s.logger.Error("助手快照读取班级失败", zap.Error(err))
		return snap, err
	}
	if snap.Sessions, err = s.repo.CourseSession.List(ctx); err != nil {
		s.logger.Error("助手快照读取课表失败", zap.Error(err))
		return snap, err
	}
	return snap, nil
}

// ────────────────────── History ──────────────────────

func (s *assistantService) History(ctx context.Context, principal model.Principal) ([]model.ChatMessage, error) {
	msgs, err := s.repo.ChatMessage.ListByOwner(ctx, principal.ID)
	if err != nil {
		s.logger.Error("查询对话记录失败", zap.String("owner_id", principal.ID), zap.Error(err))
		return nil, err
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}

// newMessage 消息 ID 由毫秒时间戳派生，同一毫秒内以序号区分
func (s *assistantService) newMessage(ownerID, text string, sender model.Sender) *model.ChatMessage {
	ts := s.now()
	id := strconv.FormatInt(ts.UnixMilli(), 10) + "-" +
		strconv.FormatUint(s.seq.Add(1), 10) + "-" + string(sender)
	return &model.ChatMessage{
		MessageID: id,
		OwnerID:   ownerID,
		Text:      text,
		Sender:    sender,
		Timestamp: ts,
	}
}
