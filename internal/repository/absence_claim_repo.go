package repository

import (
	"context"

	"gorm.io/gorm"

	"emsi-portal/backend/internal/model"
)

// AbsenceClaimRepository 缺勤台账数据访问接口
// 台账不提供删除：申请一经提交永久保留
type AbsenceClaimRepository interface {
	Create(ctx context.Context, claim *model.AbsenceClaim) error
	GetByID(ctx context.Context, id string) (*model.AbsenceClaim, error)
	List(ctx context.Context) ([]model.AbsenceClaim, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.AbsenceClaim, error)
	ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.AbsenceClaim, error)
	// CountByStatus 按状态计数，未出现的状态不在结果中
	CountByStatus(ctx context.Context) (map[model.ClaimStatus]int64, error)
	// UpdateStatus 原地修改状态与审核日期
	UpdateStatus(ctx context.Context, id string, status model.ClaimStatus, reviewedOn string) error
}

type absenceClaimRepo struct {
	db *gorm.DB
}

// NewAbsenceClaimRepo 创建 AbsenceClaimRepository 实例
func NewAbsenceClaimRepo(db *gorm.DB) AbsenceClaimRepository {
	return &absenceClaimRepo{db: db}
}

func (r *absenceClaimRepo) Create(ctx context.Context, claim *model.AbsenceClaim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *absenceClaimRepo) GetByID(ctx context.Context, id string) (*model.AbsenceClaim, error) {
	var claim model.AbsenceClaim
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", id).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *absenceClaimRepo) List(ctx context.Context) ([]model.AbsenceClaim, error) {
	var claims []model.AbsenceClaim
	err := r.db.WithContext(ctx).Order("rowid ASC").Find(&claims).Error
	return claims, err
}

func (r *absenceClaimRepo) ListByStudent(ctx context.Context, studentID string) ([]model.AbsenceClaim, error) {
	var claims []model.AbsenceClaim
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("rowid ASC").
		Find(&claims).Error
	return claims, err
}

func (r *absenceClaimRepo) ListByStatus(ctx context.Context, status model.ClaimStatus) ([]model.AbsenceClaim, error) {
	var claims []model.AbsenceClaim
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("rowid ASC").
		Find(&claims).Error
	return claims, err
}

func (r *absenceClaimRepo) CountByStatus(ctx context.Context) (map[model.ClaimStatus]int64, error) {
	var rows []struct {
		Status model.ClaimStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.AbsenceClaim{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ClaimStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *absenceClaimRepo) UpdateStatus(ctx context.Context, id string, status model.ClaimStatus, reviewedOn string) error {
	res := r.db.WithContext(ctx).
		Model(&model.AbsenceClaim{}).
		Where("claim_id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_on": reviewedOn,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
