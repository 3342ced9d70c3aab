package repository

import (
	"context"

	"gorm.io/gorm"

	"emsi-portal/backend/internal/model"
)

// CourseSessionRepository 课程时段数据访问接口
type CourseSessionRepository interface {
	Create(ctx context.Context, session *model.CourseSession) error
	GetByID(ctx context.Context, id string) (*model.CourseSession, error)
	List(ctx context.Context) ([]model.CourseSession, error)
	Update(ctx context.Context, session *model.CourseSession) error
	Delete(ctx context.Context, id string) error
}

type courseSessionRepo struct {
	db *gorm.DB
}

// NewCourseSessionRepo 创建 CourseSessionRepository 实例
func NewCourseSessionRepo(db *gorm.DB) CourseSessionRepository {
	return &courseSessionRepo{db: db}
}

func (r *courseSessionRepo) Create(ctx context.Context, session *model.CourseSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *courseSessionRepo) GetByID(ctx context.Context, id string) (*model.CourseSession, error) {
	var session model.CourseSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *courseSessionRepo) List(ctx context.Context) ([]model.CourseSession, error) {
	var sessions []model.CourseSession
	err := r.db.WithContext(ctx).Order("rowid ASC").Find(&sessions).Error
	return sessions, err
}

func (r *courseSessionRepo) Update(ctx context.Context, session *model.CourseSession) error {
	res := r.db.WithContext(ctx).
		Model(session).
		Select("*").
		Omit("created_at").
		Updates(session)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseSessionRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&model.CourseSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
