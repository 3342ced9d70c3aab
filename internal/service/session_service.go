package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/repository"
	apperrors "emsi-portal/backend/pkg/errors"
)

// SessionService 课表业务接口
// 课程时段与花名册、台账互不引用，只做字段校验
type SessionService interface {
	Add(ctx context.Context, req *dto.SessionRequest) (*model.CourseSession, error)
	// Update 按 ID 整体替换
	Update(ctx context.Context, id string, req *dto.SessionRequest) (*model.CourseSession, error)
	Delete(ctx context.Context, id string) error
	// List 按星期、开始时间排序
	List(ctx context.Context) ([]model.CourseSession, error)
	// ImportICS 导入 iCalendar，已存在的相同时段跳过
	ImportICS(ctx context.Context, r io.Reader) ([]model.CourseSession, error)
}

type sessionService struct {
	repo   *repository.Repository
	lock   *StoreLock
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(repo *repository.Repository, lock *StoreLock, logger *zap.Logger) SessionService {
	if lock == nil {
		lock = NewStoreLock()
	}
	return &sessionService{repo: repo, lock: lock, logger: logger}
}

// ────────────────────── Add ──────────────────────

func (s *sessionService) Add(ctx context.Context, req *dto.SessionRequest) (*model.CourseSession, error) {
	session := sessionFromRequest(req)
	session.SessionID = uuid.New().String()
	if err := validateSession(session); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.CourseSession.Create(ctx, session); err != nil {
		s.logger.Error("创建课程时段失败", zap.Error(err))
		return nil, err
	}
	return session, nil
}

// ────────────────────── Update ──────────────────────

func (s *sessionService) Update(ctx context.Context, id string, req *dto.SessionRequest) (*model.CourseSession, error) {
	session := sessionFromRequest(req)
	session.SessionID = id
	if err := validateSession(session); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.CourseSession.Update(ctx, session); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("session", id)
		}
		s.logger.Error("更新课程时段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return session, nil
}

// ────────────────────── Delete ──────────────────────

func (s *sessionService) Delete(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.CourseSession.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("session", id)
		}
		s.logger.Error("删除课程时段失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *sessionService) List(ctx context.Context) ([]model.CourseSession, error) {
	sessions, err := s.repo.CourseSession.List(ctx)
	if err != nil {
		s.logger.Error("列出课程时段失败", zap.Error(err))
		return nil, err
	}
	if sessions == nil {
		sessions = []model.CourseSession{}
	}
	model.SortSessions(sessions)
	return sessions, nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *sessionService) ImportICS(ctx context.Context, r io.Reader) ([]model.CourseSession, error) {
	parsed, err := ParseICS(r)
	if err != nil {
		return nil, apperrors.Invalid("file", err.Error())
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	existing, err := s.repo.CourseSession.List(ctx)
	if err != nil {
		s.logger.Error("列出课程时段失败", zap.Error(err))
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[sessionKey(&e)] = true
	}

	// 先校验、去重并收集，再统一写入
	pending := make([]model.CourseSession, 0, len(parsed))
	for i := range parsed {
		session := parsed[i]
		if err := validateSession(&session); err != nil {
			s.logger.Warn("跳过无效 ICS 事件", zap.String("name", session.Name), zap.Error(err))
			continue
		}
		key := sessionKey(&session)
		if seen[key] {
			continue
		}
		seen[key] = true
		session.SessionID = uuid.New().String()
		pending = append(pending, session)
	}

	imported := make([]model.CourseSession, 0, len(pending))
	for i := range pending {
		if err := s.repo.CourseSession.Create(ctx, &pending[i]); err != nil {
			s.logger.Error("导入课程时段失败，回滚本次导入",
				zap.String("name", pending[i].Name), zap.Int("written", len(imported)), zap.Error(err))
			s.rollbackImport(ctx, imported)
			return nil, err
		}
		imported = append(imported, pending[i])
	}

	s.logger.Info("ICS 导入完成", zap.Int("parsed", len(parsed)), zap.Int("imported", len(imported)))
	return imported, nil
}

// ── 内部辅助方法 ──

// rollbackImport 删除本次导入已写入的课程时段
func (s *sessionService) rollbackImport(ctx context.Context, written []model.CourseSession) {
	for i := range written {
		if err := s.repo.CourseSession.Delete(ctx, written[i].SessionID); err != nil {
			s.logger.Error("回滚课程时段失败", zap.String("session_id", written[i].SessionID), zap.Error(err))
		}
	}
}

func sessionFromRequest(req *dto.SessionRequest) *model.CourseSession {
	return &model.CourseSession{
		Name:       strings.TrimSpace(req.Name),
		Room:       strings.TrimSpace(req.Room),
		Day:        strings.TrimSpace(req.Day),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Instructor: strings.TrimSpace(req.Instructor),
	}
}

func sessionKey(s *model.CourseSession) string {
	return strings.ToLower(s.Name) + "|" + strings.Join([]string{
		string(rune('0' + s.DayIndex())), s.StartTime, s.EndTime,
	}, "|")
}
