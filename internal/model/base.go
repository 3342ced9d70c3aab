package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── JSON 文本数组类型 ──

// StringList 以 JSON 文本存储的字符串数组，实现 GORM Scanner/Valuer 接口。
// SQLite 没有数组列，成员列表统一序列化为 ["a","b"]。
type StringList []string

// Scan 将 JSON 文本解析为 []string。
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringList.Scan: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList.Scan: %w", err)
	}
	*l = out
	return nil
}

// Value 将 []string 序列化为 JSON 文本。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Clone 返回独立副本
func (l StringList) Clone() StringList {
	out := make(StringList, len(l))
	copy(out, l)
	return out
}

// Contains 判断是否包含指定 ID
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Touch 设置审计时间，创建时同时补齐 CreatedAt
func (b *BaseModel) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
