package errors

import (
	"errors"
	"fmt"
)

// ── 错误类别（配合 errors.Is 使用）──

var (
	// ErrValidation 创建/更新时缺少必填字段或字段非法
	ErrValidation = errors.New("参数校验失败")
	// ErrNotFound 操作引用了不存在的记录
	ErrNotFound = errors.New("记录不存在")
	// ErrUnknownStudent 缺勤申请引用了名册中不存在的学生
	ErrUnknownStudent = errors.New("学生不在名册中")
)

// ValidationError 字段校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

// Is 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError 记录不存在错误
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s 不存在", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UnknownStudentError 引用了未知学生
type UnknownStudentError struct {
	StudentID string
}

func (e *UnknownStudentError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownStudent.Error(), e.StudentID)
}

func (e *UnknownStudentError) Is(target error) bool { return target == ErrUnknownStudent }

// ── 构造快捷方式 ──

// Invalid 创建 ValidationError
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFound 创建 NotFoundError
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// UnknownStudent 创建 UnknownStudentError
func UnknownStudent(studentID string) error {
	return &UnknownStudentError{StudentID: studentID}
}
