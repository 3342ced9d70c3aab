package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/projection"
	apperrors "emsi-portal/backend/pkg/errors"
)

// unknownStudentName 申请引用的学生已被删除时的显示名
const unknownStudentName = "Unknown Student"

// ClaimFilter 申请列表筛选条件，非空条件之间为 AND
type ClaimFilter struct {
	Search    string // 课程、日期或学生姓名（不区分大小写）
	Status    string // "" 或 "all" 表示不限
	ClassID   string
	StudentID string
}

type claimPredicate func(c *model.AbsenceClaim) bool

// Filter 按条件筛选申请，结果按缺勤日期倒序
func (s *ledgerService) Filter(ctx context.Context, f ClaimFilter) ([]model.AbsenceClaim, error) {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	if status != "" && status != "all" && !model.ClaimStatus(status).Valid() {
		return nil, apperrors.Invalid("status", "未知状态")
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	claims, err := s.repo.AbsenceClaim.List(ctx)
	if err != nil {
		s.logger.Error("列出缺勤申请失败", zap.Error(err))
		return nil, err
	}
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}

	var preds []claimPredicate

	if status != "" && status != "all" {
		want := model.ClaimStatus(status)
		preds = append(preds, func(c *model.AbsenceClaim) bool { return c.Status == want })
	}

	if id := strings.TrimSpace(f.StudentID); id != "" {
		preds = append(preds, func(c *model.AbsenceClaim) bool { return c.StudentID == id })
	}

	if id := strings.TrimSpace(f.ClassID); id != "" {
		class, err := s.repo.ClassGroup.GetByID(ctx, id)
		if err != nil {
			return nil, translateNotFound(err, "class", id)
		}
		members := class.StudentIDs
		preds = append(preds, func(c *model.AbsenceClaim) bool { return members.Contains(c.StudentID) })
	}

	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		names := make(map[string]string, len(students))
		for i := range students {
			names[students[i].StudentID] = strings.ToLower(students[i].FullName())
		}
		preds = append(preds, func(c *model.AbsenceClaim) bool {
			name, ok := names[c.StudentID]
			if !ok {
				name = strings.ToLower(unknownStudentName)
			}
			return strings.Contains(strings.ToLower(c.Subject), q) ||
				strings.Contains(c.Date, q) ||
				strings.Contains(name, q)
		})
	}

	out := make([]model.AbsenceClaim, 0, len(claims))
	for i := range claims {
		if matchAll(&claims[i], preds) {
			out = append(out, claims[i])
		}
	}
	return projection.SortRecent(out), nil
}

func matchAll(c *model.AbsenceClaim, preds []claimPredicate) bool {
	for _, p := range preds {
		if !p(c) {
			return false
		}
	}
	return true
}
