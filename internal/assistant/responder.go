// Package assistant 基于关键词规则的助手应答器
//
// 应答是纯计算：同样的查询与快照总是落入同一类别，文本中嵌入的是快照中的实时计数。
// 规则按优先级排列，查询转为小写后逐条匹配，第一条命中的规则生成回复。
package assistant

import (
	"strings"
	"time"
	"unicode"

	"emsi-portal/backend/internal/model"
)

// Category 回复类别（即命中规则的名称）
type Category string

const (
	CategoryAbsence   Category = "absence"
	CategoryTimetable Category = "timetable"
	CategoryClass     Category = "class"
	CategoryStudents  Category = "students"
	CategoryGreeting  Category = "greeting"
	CategoryFallback  Category = "fallback"
)

// Snapshot 应答所需的一致性快照，由调用方在读锁下构造
type Snapshot struct {
	Principal model.Principal
	Claims    []model.AbsenceClaim
	Students  []model.Student
	Classes   []model.ClassGroup
	Sessions  []model.CourseSession
	// Now 为零值时，课程按星期与开始时间的固定顺序取前 N 个
	Now time.Time
}

// Reply 应答结果
type Reply struct {
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Options 应答参数
type Options struct {
	UpcomingSessions int // 课表类回复列出的课程数
	TopAbsentees     int // 缺勤排行列出的学生数
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{UpcomingSessions: 2, TopAbsentees: 2}
}

// Rule 单条应答规则
// Match 与 Reply 接收已转为小写的查询
type Rule struct {
	Name  Category
	Match func(query string, snap *Snapshot) bool
	Reply func(query string, snap *Snapshot) string
}

// Responder 有序规则表
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder 按固定优先级构造规则表
func NewResponder(opts Options) *Responder {
	if opts.UpcomingSessions < 1 {
		opts.UpcomingSessions = DefaultOptions().UpcomingSessions
	}
	if opts.TopAbsentees < 1 {
		opts.TopAbsentees = DefaultOptions().TopAbsentees
	}

	return &Responder{
		rules: []Rule{
			absenceRule(),
			timetableRule(opts.UpcomingSessions),
			classRule(),
			studentsRule(opts.TopAbsentees),
			greetingRule(),
		},
		fallback: fallbackText,
	}
}

// Rules 返回规则表副本（按优先级）
func (r *Responder) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Respond 生成回复，从不失败：未命中任何规则时返回兜底回复
func (r *Responder) Respond(query string, snap Snapshot) Reply {
	q := strings.ToLower(query)
	for _, rule := range r.rules {
		if rule.Match(q, &snap) {
			return Reply{Category: rule.Name, Text: rule.Reply(q, &snap)}
		}
	}
	return Reply{Category: CategoryFallback, Text: r.fallback}
}

// ── 匹配辅助 ──

func containsAny(q string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// hasWord 整词匹配，避免 "hi" 命中 "this"、"architecture"
func hasWord(q, word string) bool {
	for _, w := range strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if w == word {
			return true
		}
	}
	return false
}

func hasAnyWord(q string, words ...string) bool {
	for _, w := range words {
		if hasWord(q, w) {
			return true
		}
	}
	return false
}
