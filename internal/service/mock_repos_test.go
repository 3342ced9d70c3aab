package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"emsi-portal/backend/internal/assistant"
	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/repository"
)

// ── 测试辅助 ──

var errInjected = errors.New("injected failure")

// fixedNow 2025-04-07 是周一
func fixedNow() time.Time {
	return time.Date(2025, 4, 7, 8, 30, 0, 0, time.UTC)
}

// testEnv 共享同一个内存仓储与 StoreLock 的服务集合
type testEnv struct {
	repo      *repository.Repository
	roster    RosterService
	sessions  SessionService
	ledger    LedgerService
	assistant AssistantService
	export    ExportService
	notifier  *recordingNotifier
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithRepo(t, repository.NewMemoryRepository())
}

func setupTestEnvWithRepo(t *testing.T, repo *repository.Repository) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	lock := NewStoreLock()
	notifier := &recordingNotifier{}

	ledger := NewLedgerService(repo, lock, notifier, nil, logger)
	ledger.(*ledgerService).now = fixedNow

	asst := NewAssistantService(repo, lock, assistant.NewResponder(assistant.DefaultOptions()),
		ImmediateScheduler{}, AssistantConfig{}, nil, logger)
	asst.(*assistantService).now = fixedNow

	export := NewExportService(repo, lock, logger)
	export.(*exportService).now = fixedNow

	return &testEnv{
		repo:      repo,
		roster:    NewRosterService(repo, lock, logger),
		sessions:  NewSessionService(repo, lock, logger),
		ledger:    ledger,
		assistant: asst,
		export:    export,
		notifier:  notifier,
	}
}

// addStudent 以学号派生邮箱，便于批量创建
func (e *testEnv) addStudent(t *testing.T, number, first, last string) *model.Student {
	t.Helper()
	st, err := e.roster.AddStudent(context.Background(), &dto.CreateStudentRequest{
		StudentNumber: number,
		FirstName:     first,
		LastName:      last,
		Email:         number + "@emsi.ma",
		Department:    "Informatique",
		Year:          "3ème année",
		ClassLabel:    "3A",
	})
	if err != nil {
		t.Fatalf("AddStudent 应成功: %v", err)
	}
	return st
}

func (e *testEnv) submit(t *testing.T, studentID, subject, date string) *model.AbsenceClaim {
	t.Helper()
	claim, err := e.ledger.SubmitClaim(context.Background(), &dto.SubmitClaimRequest{
		StudentID: studentID,
		Subject:   subject,
		Date:      date,
		Time:      "08:30 - 10:30",
		Reason:    "Medical",
	})
	if err != nil {
		t.Fatalf("SubmitClaim 应成功: %v", err)
	}
	return claim
}

// ── recordingNotifier ──

type recordingNotifier struct {
	mu      sync.Mutex
	intents []model.NotificationIntent
	err     error
}

func (n *recordingNotifier) Publish(_ context.Context, intent model.NotificationIntent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.intents = append(n.intents, intent)
	return nil
}

func (n *recordingNotifier) published() []model.NotificationIntent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.NotificationIntent, len(n.intents))
	copy(out, n.intents)
	return out
}

// ── fakeEnqueuer ──

type fakeEnqueuer struct {
	key     string
	payload []byte
	err     error
}

func (q *fakeEnqueuer) Enqueue(_ context.Context, key string, payload []byte) error {
	if q.err != nil {
		return q.err
	}
	q.key = key
	q.payload = payload
	return nil
}

// ── failingClaimRepo ──

// failingClaimRepo 在内存实现之上注入写失败
type failingClaimRepo struct {
	repository.AbsenceClaimRepository
	failCreate bool
	failUpdate bool
}

func (r *failingClaimRepo) Create(ctx context.Context, claim *model.AbsenceClaim) error {
	if r.failCreate {
		return errInjected
	}
	return r.AbsenceClaimRepository.Create(ctx, claim)
}

func (r *failingClaimRepo) UpdateStatus(ctx context.Context, id string, status model.ClaimStatus, reviewedOn string) error {
	if r.failUpdate {
		return errInjected
	}
	return r.AbsenceClaimRepository.UpdateStatus(ctx, id, status, reviewedOn)
}

// ── failingSessionRepo ──

// failingSessionRepo 第 failAfter 次 Create 起返回错误
type failingSessionRepo struct {
	repository.CourseSessionRepository
	failAfter int
	creates   int
}

func (r *failingSessionRepo) Create(ctx context.Context, session *model.CourseSession) error {
	r.creates++
	if r.creates > r.failAfter {
		return errInjected
	}
	return r.CourseSessionRepository.Create(ctx, session)
}

// ── manualScheduler ──

// manualScheduler 记录任务，由测试显式触发
type manualScheduler struct {
	delays []time.Duration
	tasks  []func()
}

func (s *manualScheduler) After(delay time.Duration, fn func()) {
	s.delays = append(s.delays, delay)
	s.tasks = append(s.tasks, fn)
}

func (s *manualScheduler) runAll() {
	tasks := s.tasks
	s.tasks = nil
	for _, fn := range tasks {
		fn()
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
