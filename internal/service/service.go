package service

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"emsi-portal/backend/config"
	"emsi-portal/backend/internal/assistant"
	"emsi-portal/backend/internal/repository"
	apperrors "emsi-portal/backend/pkg/errors"
	applogger "emsi-portal/backend/pkg/logger"
	"emsi-portal/backend/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Roster    RosterService
	Session   SessionService
	Ledger    LedgerService
	Assistant AssistantService
	Export    ExportService
}

// StoreLock 跨存储操作的读写锁
// 涉及多个集合的写操作（提交申请、删除学生、维护班级成员）持写锁，
// 助手快照与筛选等跨集合读取持读锁，保证不会读到半完成的状态
type StoreLock struct {
	sync.RWMutex
}

// NewStoreLock 创建 StoreLock
func NewStoreLock() *StoreLock {
	return &StoreLock{}
}

// Deps Service 聚合的外部依赖
type Deps struct {
	Notifier  Notifier
	Scheduler Scheduler
	Metrics   *metrics.Metrics
}

// NewService 创建 Service 聚合，所有子服务共享同一把 StoreLock
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	deps Deps,
	logger *zap.Logger,
) *Service {
	lock := NewStoreLock()

	if deps.Notifier == nil {
		deps.Notifier = NewLogNotifier(logger)
	}
	if deps.Scheduler == nil {
		deps.Scheduler = ImmediateScheduler{}
	}

	responder := assistant.NewResponder(assistant.Options{
		UpcomingSessions: cfg.Assistant.UpcomingSessions,
		TopAbsentees:     cfg.Assistant.TopAbsentees,
	})

	return &Service{
		Roster:  NewRosterService(repo, lock, applogger.Module(logger, "roster")),
		Session: NewSessionService(repo, lock, applogger.Module(logger, "session")),
		Ledger:  NewLedgerService(repo, lock, deps.Notifier, deps.Metrics, applogger.Module(logger, "ledger")),
		Assistant: NewAssistantService(repo, lock, responder, deps.Scheduler, AssistantConfig{
			ReplyDelay: cfg.Assistant.ReplyDelay,
		}, deps.Metrics, applogger.Module(logger, "assistant")),
		Export: NewExportService(repo, lock, applogger.Module(logger, "export")),
	}
}

// ── 内部辅助 ──

const dateLayout = "2006-01-02"

// translateNotFound 将仓储层未命中转换为 NotFoundError
func translateNotFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func today(now func() time.Time) string {
	return now().Format(dateLayout)
}
