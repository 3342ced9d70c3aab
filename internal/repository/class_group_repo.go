package repository

import (
	"context"

	"gorm.io/gorm"

	"emsi-portal/backend/internal/model"
)

// ClassGroupRepository 班级数据访问接口
type ClassGroupRepository interface {
	Create(ctx context.Context, class *model.ClassGroup) error
	GetByID(ctx context.Context, id string) (*model.ClassGroup, error)
	List(ctx context.Context) ([]model.ClassGroup, error)
	Update(ctx context.Context, class *model.ClassGroup) error
	// RemoveMember 从所有班级成员列表中移除该学生，返回受影响的班级数
	RemoveMember(ctx context.Context, studentID string) (int, error)
}

type classGroupRepo struct {
	db *gorm.DB
}

// NewClassGroupRepo 创建 ClassGroupRepository 实例
func NewClassGroupRepo(db *gorm.DB) ClassGroupRepository {
	return &classGroupRepo{db: db}
}

func (r *classGroupRepo) Create(ctx context.Context, class *model.ClassGroup) error {
	if class.StudentIDs == nil {
		class.StudentIDs = model.StringList{}
	}
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classGroupRepo) GetByID(ctx context.Context, id string) (*model.ClassGroup, error) {
	var class model.ClassGroup
	err := r.db.WithContext(ctx).
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classGroupRepo) List(ctx context.Context) ([]model.ClassGroup, error) {
	var classes []model.ClassGroup
	err := r.db.WithContext(ctx).Order("rowid ASC").Find(&classes).Error
	return classes, err
}

func (r *classGroupRepo) Update(ctx context.Context, class *model.ClassGroup) error {
	res := r.db.WithContext(ctx).
		Model(class).
		Select("*").
		Omit("created_at").
		Updates(class)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *classGroupRepo) RemoveMember(ctx context.Context, studentID string) (int, error) {
	affected := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var classes []model.ClassGroup
		if err := tx.Order("rowid ASC").Find(&classes).Error; err != nil {
			return err
		}
		for _, c := range classes {
			if !c.StudentIDs.Contains(studentID) {
				continue
			}
			kept := make(model.StringList, 0, len(c.StudentIDs))
			for _, id := range c.StudentIDs {
				if id != studentID {
					kept = append(kept, id)
				}
			}
			if err := tx.Model(&model.ClassGroup{}).
				Where("class_id = ?", c.ClassID).
				Update("student_ids", kept).Error; err != nil {
				return err
			}
			affected++
		}
		return nil
	})
	return affected, err
}
