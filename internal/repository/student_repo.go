package repository

import (
	"context"

	"gorm.io/gorm"

	"emsi-portal/backend/internal/model"
)

// StudentRepository 学生花名册数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByStudentNumber(ctx context.Context, number string) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	// List 按录入顺序返回
	List(ctx context.Context) ([]model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
}

// studentRepo StudentRepository 的 GORM 实现
type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	return r.first(ctx, "student_id = ?", id)
}

func (r *studentRepo) GetByStudentNumber(ctx context.Context, number string) (*model.Student, error) {
	return r.first(ctx, "student_number = ?", number)
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *studentRepo) first(ctx context.Context, query string, arg string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where(query, arg).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).Order("rowid ASC").Find(&students).Error
	return students, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	res := r.db.WithContext(ctx).
		Model(student).
		Select("*").
		Omit("created_at").
		Updates(student)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		Delete(&model.Student{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
