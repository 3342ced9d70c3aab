package service

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"emsi-portal/backend/internal/model"
	apperrors "emsi-portal/backend/pkg/errors"
)

// 与 gin binding 使用同一个校验库，服务层不依赖 HTTP 层先行校验
var validate = validator.New()

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Invalid(field, "不能为空")
	}
	return nil
}

func validateEmail(email string) error {
	if err := requireText("email", email); err != nil {
		return err
	}
	if err := validate.Var(email, "email"); err != nil {
		return apperrors.Invalid("email", "格式不正确")
	}
	return nil
}

func validateStudent(s *model.Student) error {
	if err := requireText("first_name", s.FirstName); err != nil {
		return err
	}
	if err := requireText("last_name", s.LastName); err != nil {
		return err
	}
	if err := requireText("student_number", s.StudentNumber); err != nil {
		return err
	}
	if err := validateEmail(s.Email); err != nil {
		return err
	}
	if s.AbsenceCount < 0 {
		return apperrors.Invalid("absence_count", "不能为负数")
	}
	if s.JustifiedAbsenceCount < 0 {
		return apperrors.Invalid("justified_absence_count", "不能为负数")
	}
	if s.JustifiedAbsenceCount > s.AbsenceCount {
		return apperrors.Invalid("justified_absence_count", "不能大于 absence_count")
	}
	return nil
}

// normalizeClock 校验 HH:MM 并补齐前导零（"9:00" → "09:00"）
func normalizeClock(field, value string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return "", apperrors.Invalid(field, "格式应为 HH:MM")
	}
	return t.Format("15:04"), nil
}

func validateSession(s *model.CourseSession) error {
	if err := requireText("name", s.Name); err != nil {
		return err
	}
	if _, ok := model.ParseWeekday(s.Day); !ok {
		return apperrors.Invalid("day", "无法识别的星期")
	}
	start, err := normalizeClock("start_time", s.StartTime)
	if err != nil {
		return err
	}
	end, err := normalizeClock("end_time", s.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return apperrors.Invalid("end_time", "必须晚于 start_time")
	}
	s.StartTime, s.EndTime = start, end
	return nil
}

func validateDate(field, value string) error {
	if err := requireText(field, value); err != nil {
		return err
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return apperrors.Invalid(field, "格式应为 YYYY-MM-DD")
	}
	return nil
}
