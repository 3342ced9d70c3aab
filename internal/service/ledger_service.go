package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/projection"
	"emsi-portal/backend/internal/repository"
	apperrors "emsi-portal/backend/pkg/errors"
	"emsi-portal/backend/pkg/metrics"
)

// LedgerService 缺勤台账业务接口
//
// 状态机：
//
//	SubmitClaim → pending ──ReviewClaim──▶ justified ⇄ unjustified
//
// 申请不会回到 pending，也不会被删除
type LedgerService interface {
	SubmitClaim(ctx context.Context, req *dto.SubmitClaimRequest) (*model.AbsenceClaim, error)
	ReviewClaim(ctx context.Context, id string, decision model.ClaimStatus) (*dto.ReviewClaimResponse, error)
	// Notify 督导附言后重新发出通知意图，不改变申请状态
	Notify(ctx context.Context, id, message string) (*model.NotificationIntent, error)
	Get(ctx context.Context, id string) (*model.AbsenceClaim, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.AbsenceClaim, error)
	ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.AbsenceClaim, error)
	CountByStatus(ctx context.Context) (projection.StatusCounts, error)
	Filter(ctx context.Context, f ClaimFilter) ([]model.AbsenceClaim, error)
}

type ledgerService struct {
	repo     *repository.Repository
	lock     *StoreLock
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewLedgerService 创建 LedgerService 实例
func NewLedgerService(
	repo *repository.Repository,
	lock *StoreLock,
	notifier Notifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) LedgerService {
	if lock == nil {
		lock = NewStoreLock()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &ledgerService{
		repo:     repo,
		lock:     lock,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── SubmitClaim ──────────────────────

// defaultClaimTime 未填写时段时的缺省值（整天缺勤）
const defaultClaimTime = "00:00"

func (s *ledgerService) SubmitClaim(ctx context.Context, req *dto.SubmitClaimRequest) (*model.AbsenceClaim, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if studentID == "" {
		return nil, apperrors.Invalid("student_id", "不能为空")
	}
	if err := requireText("subject", req.Subject); err != nil {
		return nil, err
	}
	if err := validateDate("date", req.Date); err != nil {
		return nil, err
	}
	claimTime := strings.TrimSpace(req.Time)
	if claimTime == "" {
		claimTime = defaultClaimTime
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	// 学生存在性检查与写入在同一把写锁内，避免与删除学生交错
	if _, err := s.repo.Student.GetByID(ctx, studentID); err != nil {
		if isNotFound(err) {
			return nil, apperrors.UnknownStudent(studentID)
		}
		s.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	claim := &model.AbsenceClaim{
		ClaimID:     uuid.New().String(),
		StudentID:   studentID,
		Subject:     strings.TrimSpace(req.Subject),
		Date:        req.Date,
		Time:        claimTime,
		Status:      model.ClaimPending,
		Reason:      strings.TrimSpace(req.Reason),
		Description: req.Description,
		DocumentRef: req.DocumentRef,
		SubmittedOn: today(s.now),
	}
	if err := s.repo.AbsenceClaim.Create(ctx, claim); err != nil {
		s.logger.Error("创建缺勤申请失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	s.metrics.ClaimSubmitted()
	return claim, nil
}

// ────────────────────── ReviewClaim ──────────────────────

func (s *ledgerService) ReviewClaim(ctx context.Context, id string, decision model.ClaimStatus) (*dto.ReviewClaimResponse, error) {
	if !decision.IsDecision() {
		return nil, apperrors.Invalid("decision", "仅支持 justified 或 unjustified")
	}

	claim, err := s.applyReview(ctx, id, decision)
	if err != nil {
		return nil, err
	}

	intent := model.NotificationIntent{
		StudentID: claim.StudentID,
		ClaimID:   claim.ClaimID,
		Status:    claim.Status,
		Message:   reviewMessage(claim),
		CreatedAt: s.now(),
	}
	s.publish(ctx, intent)
	s.metrics.ClaimReviewed(string(decision))

	return &dto.ReviewClaimResponse{Claim: *claim, Notification: intent}, nil
}

// applyReview 在写锁内完成状态变更，通知投递放在锁外
func (s *ledgerService) applyReview(ctx context.Context, id string, decision model.ClaimStatus) (*model.AbsenceClaim, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.AbsenceClaim.UpdateStatus(ctx, id, decision, today(s.now)); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("claim", id)
		}
		s.logger.Error("审核缺勤申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	claim, err := s.repo.AbsenceClaim.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "claim", id)
	}
	return claim, nil
}

// ────────────────────── Notify ──────────────────────

func (s *ledgerService) Notify(ctx context.Context, id, message string) (*model.NotificationIntent, error) {
	if err := requireText("message", message); err != nil {
		return nil, err
	}
	claim, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	intent := model.NotificationIntent{
		StudentID: claim.StudentID,
		ClaimID:   claim.ClaimID,
		Status:    claim.Status,
		Message:   strings.TrimSpace(message),
		CreatedAt: s.now(),
	}
	s.publish(ctx, intent)
	return &intent, nil
}

// publish 投递失败只记录，不影响已落地的审核结果
func (s *ledgerService) publish(ctx context.Context, intent model.NotificationIntent) {
	if err := s.notifier.Publish(ctx, intent); err != nil {
		s.metrics.NotifyFailed()
		s.logger.Warn("通知意图投递失败",
			zap.String("claim_id", intent.ClaimID),
			zap.String("student_id", intent.StudentID),
			zap.Error(err),
		)
	}
}

// ────────────────────── 查询 ──────────────────────

func (s *ledgerService) Get(ctx context.Context, id string) (*model.AbsenceClaim, error) {
	claim, err := s.repo.AbsenceClaim.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("claim", id)
		}
		s.logger.Error("查询缺勤申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return claim, nil
}

func (s *ledgerService) ListByStudent(ctx context.Context, studentID string) ([]model.AbsenceClaim, error) {
	claims, err := s.repo.AbsenceClaim.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("按学生查询缺勤申请失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	return nonNilClaims(claims), nil
}

func (s *ledgerService) ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.AbsenceClaim, error) {
	if !status.Valid() {
		return nil, apperrors.Invalid("status", "未知状态")
	}
	claims, err := s.repo.AbsenceClaim.ListByStatus(ctx, status)
	if err != nil {
		s.logger.Error("按状态查询缺勤申请失败", zap.String("status", string(status)), zap.Error(err))
		return nil, err
	}
	return nonNilClaims(claims), nil
}

func (s *ledgerService) CountByStatus(ctx context.Context) (projection.StatusCounts, error) {
	counts, err := s.repo.AbsenceClaim.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("统计缺勤申请失败", zap.Error(err))
		return projection.StatusCounts{}, err
	}
	out := projection.StatusCounts{
		Pending:     int(counts[model.ClaimPending]),
		Justified:   int(counts[model.ClaimJustified]),
		Unjustified: int(counts[model.ClaimUnjustified]),
	}
	out.Total = out.Pending + out.Justified + out.Unjustified
	return out, nil
}

// ── 内部辅助方法 ──

func reviewMessage(claim *model.AbsenceClaim) string {
	if claim.Status == model.ClaimJustified {
		return "Votre absence du " + claim.Date + " (" + claim.Subject + ") a été marquée comme justifiée."
	}
	return "Votre absence du " + claim.Date + " (" + claim.Subject + ") a été marquée comme non justifiée."
}

func nonNilClaims(claims []model.AbsenceClaim) []model.AbsenceClaim {
	if claims == nil {
		return []model.AbsenceClaim{}
	}
	return claims
}
