package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
// 两种引擎实现同一组接口：memory（默认）与 GORM（内存 SQLite）
// 未命中统一返回 gorm.ErrRecordNotFound，唯一约束冲突返回 gorm.ErrDuplicatedKey
type Repository struct {
	Student       StudentRepository
	ClassGroup    ClassGroupRepository
	CourseSession CourseSessionRepository
	AbsenceClaim  AbsenceClaimRepository
	ChatMessage   ChatMessageRepository
}

// NewRepository 创建 GORM 引擎的 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student:       NewStudentRepo(db),
		ClassGroup:    NewClassGroupRepo(db),
		CourseSession: NewCourseSessionRepo(db),
		AbsenceClaim:  NewAbsenceClaimRepo(db),
		ChatMessage:   NewChatMessageRepo(db),
	}
}

// NewMemoryRepository 创建进程内存引擎的 Repository 聚合
func NewMemoryRepository() *Repository {
	return &Repository{
		Student:       NewMemoryStudentRepo(),
		ClassGroup:    NewMemoryClassGroupRepo(),
		CourseSession: NewMemoryCourseSessionRepo(),
		AbsenceClaim:  NewMemoryAbsenceClaimRepo(),
		ChatMessage:   NewMemoryChatMessageRepo(),
	}
}
