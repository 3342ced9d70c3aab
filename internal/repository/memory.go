package repository

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"emsi-portal/backend/internal/model"
)

// ── 内存引擎 ──────────────────────────────────────────────
//
// 每个集合由独立互斥锁保护：
//   - 写操作复制整个切片，在副本上修改，成功后整体替换（copy-and-replace）
//   - 读操作返回深拷贝，调用方修改返回值不会影响集合
//   - 切片保持插入顺序，与 GORM 引擎按 rowid 排序的结果一致
// ─────────────────────────────────────────────────────────────

type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	clone func(T) T
}

func newCollection[T any](clone func(T) T) *collection[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &collection[T]{clone: clone}
}

// filter 返回满足条件的元素副本，keep 为 nil 时返回全部
func (c *collection[T]) filter(keep func(*T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, 0, len(c.items))
	for i := range c.items {
		if keep == nil || keep(&c.items[i]) {
			out = append(out, c.clone(c.items[i]))
		}
	}
	return out
}

// first 返回第一个满足条件的元素副本
func (c *collection[T]) first(match func(*T) bool) (*T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.items {
		if match(&c.items[i]) {
			v := c.clone(c.items[i])
			return &v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// replace 在集合副本上执行修改，fn 返回错误时集合保持原样
func (c *collection[T]) replace(fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, len(c.items))
	copy(next, c.items)

	next, err := fn(next)
	if err != nil {
		return err
	}
	c.items = next
	return nil
}

func indexOf[T any](items []T, match func(*T) bool) int {
	for i := range items {
		if match(&items[i]) {
			return i
		}
	}
	return -1
}

// ── Student ──

type memoryStudentRepo struct {
	students *collection[model.Student]
}

// NewMemoryStudentRepo 创建内存 StudentRepository
func NewMemoryStudentRepo() StudentRepository {
	return &memoryStudentRepo{students: newCollection[model.Student](nil)}
}

func (r *memoryStudentRepo) Create(_ context.Context, student *model.Student) error {
	student.Touch(time.Now())
	return r.students.replace(func(items []model.Student) ([]model.Student, error) {
		if conflictsWith(items, student, "") {
			return nil, gorm.ErrDuplicatedKey
		}
		return append(items, *student), nil
	})
}

// conflictsWith 检查主键、学号、邮箱唯一性，skipID 为正在更新的记录本身
func conflictsWith(items []model.Student, s *model.Student, skipID string) bool {
	for _, it := range items {
		if it.StudentID == skipID {
			continue
		}
		if it.StudentID == s.StudentID || it.StudentNumber == s.StudentNumber || it.Email == s.Email {
			return true
		}
	}
	return false
}

func (r *memoryStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	return r.students.first(func(s *model.Student) bool { return s.StudentID == id })
}

func (r *memoryStudentRepo) GetByStudentNumber(_ context.Context, number string) (*model.Student, error) {
	return r.students.first(func(s *model.Student) bool { return s.StudentNumber == number })
}

func (r *memoryStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	return r.students.first(func(s *model.Student) bool { return s.Email == email })
}

func (r *memoryStudentRepo) List(_ context.Context) ([]model.Student, error) {
	return r.students.filter(nil), nil
}

func (r *memoryStudentRepo) Update(_ context.Context, student *model.Student) error {
	return r.students.replace(func(items []model.Student) ([]model.Student, error) {
		idx := indexOf(items, func(s *model.Student) bool { return s.StudentID == student.StudentID })
		if idx < 0 {
			return nil, gorm.ErrRecordNotFound
		}
		if conflictsWith(items, student, student.StudentID) {
			return nil, gorm.ErrDuplicatedKey
		}
		student.CreatedAt = items[idx].CreatedAt
		student.UpdatedAt = time.Now()
		items[idx] = *student
		return items, nil
	})
}

func (r *memoryStudentRepo) Delete(_ context.Context, id string) error {
	return r.students.replace(func(items []model.Student) ([]model.Student, error) {
		idx := indexOf(items, func(s *model.Student) bool { return s.StudentID == id })
		if idx < 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
}

// ── ClassGroup ──

type memoryClassGroupRepo struct {
	classes *collection[model.ClassGroup]
}

// NewMemoryClassGroupRepo 创建内存 ClassGroupRepository
func NewMemoryClassGroupRepo() ClassGroupRepository {
	return &memoryClassGroupRepo{classes: newCollection(model.ClassGroup.Clone)}
}

func (r *memoryClassGroupRepo) Create(_ context.Context, class *model.ClassGroup) error {
	if class.StudentIDs == nil {
		class.StudentIDs = model.StringList{}
	}
	class.Touch(time.Now())
	return r.classes.replace(func(items []model.ClassGroup) ([]model.ClassGroup, error) {
		if indexOf(items, func(c *model.ClassGroup) bool { return c.ClassID == class.ClassID }) >= 0 {
			return nil, gorm.ErrDuplicatedKey
		}
		return append(items, class.Clone()), nil
	})
}

func (r *memoryClassGroupRepo) GetByID(_ context.Context, id string) (*model.ClassGroup, error) {
	return r.classes.first(func(c *model.ClassGroup) bool { return c.ClassID == id })
}

func (r *memoryClassGroupRepo) List(_ context.Context) ([]model.ClassGroup, error) {
	return r.classes.filter(nil), nil
}

func (r *memoryClassGroupRepo) Update(_ context.Context, class *model.ClassGroup) error {
	return r.classes.replace(func(items []model.ClassGroup) ([]model.ClassGroup, error) {
		idx := indexOf(items, func(c *model.ClassGroup) bool { return c.ClassID == class.ClassID })
		if idx < 0 {
			return nil, gorm.ErrRecordNotFound
		}
		class.CreatedAt = items[idx].CreatedAt
		class.UpdatedAt = time.Now()
		items[idx] = class.Clone()
		return items, nil
	})
}

func (r *memoryClassGroupRepo) RemoveMember(_ context.Context, studentID string) (int, error) {
	affected := 0
	err := r.classes.replace(func(items []model.ClassGroup) ([]model.ClassGroup, error) {
		for i := range items {
			if !items[i].StudentIDs.Contains(studentID) {
				continue
			}
			kept := make(model.StringList, 0, len(items[i].StudentIDs))
			for _, id := range items[i].StudentIDs {
				if id != studentID {
					kept = append(kept, id)
				}
			}
			// 副本切片与原集合共享元素，成员列表必须替换为新切片
			items[i].StudentIDs = kept
			items[i].UpdatedAt = time.Now()
			affected++
		}
		return items, nil
	})
	return affected, err
}

// ── CourseSession ──

type memoryCourseSessionRepo struct {
	sessions *collection[model.CourseSession]
}

// NewMemoryCourseSessionRepo 创建内存 CourseSessionRepository
func NewMemoryCourseSessionRepo() CourseSessionRepository {
	return &memoryCourseSessionRepo{sessions: newCollection[model.CourseSession](nil)}
}

func (r *memoryCourseSessionRepo) Create(_ context.Context, session *model.CourseSession) error {
	session.Touch(time.Now())
	return r.sessions.replace(func(items []model.CourseSession) ([]model.CourseSession, error) {
		if indexOf(items, func(s *model.CourseSession) bool { return s.SessionID == session.SessionID }) >= 0 {
			return nil, gorm.ErrDuplicatedKey
		}
		return append(items, *session), nil
	})
}

func (r *memoryCourseSessionRepo) GetByID(_ context.Context, id string) (*model.CourseSession, error) {
	return r.sessions.first(func(s *model.CourseSession) bool { return s.SessionID == id })
}

func (r *memoryCourseSessionRepo) List(_ context.Context) ([]model.CourseSession, error) {
	return r.sessions.filter(nil), nil
}

func (r *memoryCourseSessionRepo) Update(_ context.Context, session *model.CourseSession) error {
	return r.sessions.replace(func(items []model.CourseSession) ([]model.CourseSession, error) {
		idx := indexOf(items, func(s *model.CourseSession) bool { return s.SessionID == session.SessionID })
		if idx < 0 {
			return nil, gorm.ErrRecordNotFound
		}
		session.CreatedAt = items[idx].CreatedAt
		session.UpdatedAt = time.Now()
		items[idx] = *session
		return items, nil
	})
}

func (r *memoryCourseSessionRepo) Delete(_ context.Context, id string) error {
	return r.sessions.replace(func(items []model.CourseSession) ([]model.CourseSession, error) {
		idx := indexOf(items, func(s *model.CourseSession) bool { return s.SessionID == id })
		if idx < 0 {
			return nil, gorm.ErrRecordNotFound
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
}

// ── AbsenceClaim ──

type memoryAbsenceClaimRepo struct {
	claims *collection[model.AbsenceClaim]
}

// NewMemoryAbsenceClaimRepo 创建内存 AbsenceClaimRepository
func NewMemoryAbsenceClaimRepo() AbsenceClaimRepository {
	return &memoryAbsenceClaimRepo{claims: newCollection[model.AbsenceClaim](nil)}
}

func (r *memoryAbsenceClaimRepo) Create(_ context.Context, claim *model.AbsenceClaim) error {
	claim.Touch(time.Now())
	return r.claims.replace(func(items []model.AbsenceClaim) ([]model.AbsenceClaim, error) {
		if indexOf(items, func(c *model.AbsenceClaim) bool { return c.ClaimID == claim.ClaimID }) >= 0 {
			return nil, gorm.ErrDuplicatedKey
		}
		return append(items, *claim), nil
	})
}

func (r *memoryAbsenceClaimRepo) GetByID(_ context.Context, id string) (*model.AbsenceClaim, error) {
	return r.claims.first(func(c *model.AbsenceClaim) bool { return c.ClaimID == id })
}

func (r *memoryAbsenceClaimRepo) List(_ context.Context) ([]model.AbsenceClaim, error) {
	return r.claims.filter(nil), nil
}

func (r *memoryAbsenceClaimRepo) ListByStudent(_ context.Context, studentID string) ([]model.AbsenceClaim, error) {
	return r.claims.filter(func(c *model.AbsenceClaim) bool { return c.StudentID == studentID }), nil
}

func (r *memoryAbsenceClaimRepo) ListByStatus(_ context.Context, status model.ClaimStatus) ([]model.AbsenceClaim, error) {
	return r.claims.filter(func(c *model.AbsenceClaim) bool { return c.Status == status }), nil
}

func (r *memoryAbsenceClaimRepo) CountByStatus(_ context.Context) (map[model.ClaimStatus]int64, error) {
	counts := make(map[model.ClaimStatus]int64)
	for _, c := range r.claims.filter(nil) {
		counts[c.Status]++
	}
	return counts, nil
}

func (r *memoryAbsenceClaimRepo) UpdateStatus(_ context.Context, id string, status model.ClaimStatus, reviewedOn string) error {
	return r.claims.replace(func(items []model.AbsenceClaim) ([]model.AbsenceClaim, error) {
		idx := indexOf(items, func(c *model.AbsenceClaim) bool { return c.ClaimID == id })
		if idx < 0 {
			return nil, gorm.ErrRecordNotFound
		}
		items[idx].Status = status
		items[idx].ReviewedOn = reviewedOn
		items[idx].UpdatedAt = time.Now()
		return items, nil
	})
}

// ── ChatMessage ──

type memoryChatMessageRepo struct {
	messages *collection[model.ChatMessage]
}

// NewMemoryChatMessageRepo 创建内存 ChatMessageRepository
func NewMemoryChatMessageRepo() ChatMessageRepository {
	return &memoryChatMessageRepo{messages: newCollection[model.ChatMessage](nil)}
}

func (r *memoryChatMessageRepo) Append(_ context.Context, msg *model.ChatMessage) error {
	return r.messages.replace(func(items []model.ChatMessage) ([]model.ChatMessage, error) {
		if indexOf(items, func(m *model.ChatMessage) bool { return m.MessageID == msg.MessageID }) >= 0 {
			return nil, gorm.ErrDuplicatedKey
		}
		return append(items, *msg), nil
	})
}

func (r *memoryChatMessageRepo) ListByOwner(_ context.Context, ownerID string) ([]model.ChatMessage, error) {
	return r.messages.filter(func(m *model.ChatMessage) bool { return m.OwnerID == ownerID }), nil
}
