package model

import (
	"sort"
	"strings"
	"time"
)

// ── 星期工具 ──
// 课表中的 Day 字段沿用录入时的写法（法语或英语），这里统一换算为 ISO 序号

var weekdayNames = map[string]time.Weekday{
	"lundi":     time.Monday,
	"mardi":     time.Tuesday,
	"mercredi":  time.Wednesday,
	"jeudi":     time.Thursday,
	"vendredi":  time.Friday,
	"samedi":    time.Saturday,
	"dimanche":  time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var frenchWeekdays = [...]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// ParseWeekday 解析法语/英语星期名（大小写不敏感）
func ParseWeekday(day string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(day))]
	return wd, ok
}

// FrenchWeekday 返回法语星期名（ICS 导入使用）
func FrenchWeekday(wd time.Weekday) string {
	return frenchWeekdays[wd]
}

// ISOWeekday 将 time.Weekday (0=Sunday) 转为 ISO 8601 (1=Monday … 7=Sunday)
func ISOWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// DayIndex 课程所在星期的 ISO 序号，无法识别时排在最后
func (s CourseSession) DayIndex() int {
	wd, ok := ParseWeekday(s.Day)
	if !ok {
		return 8
	}
	return ISOWeekday(wd)
}

// SortSessions 按星期、开始时间排序（稳定排序，原地修改）
func SortSessions(sessions []CourseSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		di, dj := sessions[i].DayIndex(), sessions[j].DayIndex()
		if di != dj {
			return di < dj
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})
}
