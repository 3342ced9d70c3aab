package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"emsi-portal/backend/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 内容解析为 CourseSession 列表。
//
//   - SUMMARY → 课程名，LOCATION → 教室
//   - DTSTART/DTEND 确定星期几与起止时间（无 DTEND 时按 DURATION，缺省 2 小时）
//   - DESCRIPTION 优先作为授课教师，否则取 ORGANIZER 的 CN 或邮箱
//   - 同 name+day+start+end 的多次发生合并为一个时段（周课表只关心星期）
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	defaultTimezone = "Africa/Casablanca"
)

// parsedSessionEvent ICS 解析中间结构
type parsedSessionEvent struct {
	Name       string
	Room       string
	Weekday    time.Weekday
	StartTime  string
	EndTime    string
	Instructor string
}

// ParseICS 解析 ICS 内容并转为 CourseSession 列表（未分配 ID）
func ParseICS(reader io.Reader) ([]model.CourseSession, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(reader, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		loc = time.UTC
	}

	// 阶段 1: 解析所有 VEVENT
	var events []parsedSessionEvent
	for _, comp := range cal.Events() {
		evt, ok := parseVEvent(comp, loc)
		if !ok {
			continue
		}
		events = append(events, evt)
	}

	// 阶段 2: 合并重复发生
	merged := mergeEvents(events)

	// 阶段 3: 转为 model.CourseSession
	result := make([]model.CourseSession, 0, len(merged))
	for _, evt := range merged {
		result = append(result, model.CourseSession{
			Name:       evt.Name,
			Room:       evt.Room,
			Day:        model.FrenchWeekday(evt.Weekday),
			StartTime:  evt.StartTime,
			EndTime:    evt.EndTime,
			Instructor: evt.Instructor,
		})
	}
	return result, nil
}

// parseVEvent 解析单个 VEVENT 组件
func parseVEvent(evt *ics.VEvent, loc *time.Location) (parsedSessionEvent, bool) {
	name := propertyText(evt, ics.ComponentPropertySummary)
	if name == "" {
		return parsedSessionEvent{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return parsedSessionEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		if evt.GetProperty(ics.ComponentPropertyDuration) == nil {
			return parsedSessionEvent{}, false
		}
		// 简化处理：默认 2 小时
		dtEnd = dtStart.Add(2 * time.Hour)
	}

	// 跨天或全天事件不是课程时段
	if dtEnd.Format("20060102") != dtStart.Format("20060102") || !dtEnd.After(dtStart) {
		return parsedSessionEvent{}, false
	}

	return parsedSessionEvent{
		Name:       name,
		Room:       propertyText(evt, ics.ComponentPropertyLocation),
		Weekday:    dtStart.Weekday(),
		StartTime:  dtStart.Format("15:04"),
		EndTime:    dtEnd.Format("15:04"),
		Instructor: instructorOf(evt),
	}, true
}

func propertyText(evt *ics.VEvent, prop ics.ComponentProperty) string {
	p := evt.GetProperty(prop)
	if p == nil {
		return ""
	}
	return strings.TrimSpace(p.Value)
}

// instructorOf DESCRIPTION > ORGANIZER;CN= > ORGANIZER 邮箱
func instructorOf(evt *ics.VEvent) string {
	if desc := propertyText(evt, ics.ComponentPropertyDescription); desc != "" {
		return desc
	}
	org := evt.GetProperty(ics.ComponentPropertyOrganizer)
	if org == nil {
		return ""
	}
	for k, v := range org.ICalParameters {
		if strings.EqualFold(k, "CN") && len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			return strings.TrimSpace(v[0])
		}
	}
	value := strings.TrimSpace(org.Value)
	if len(value) >= 7 && strings.EqualFold(value[:7], "mailto:") {
		value = value[7:]
	}
	return value
}

// mergeEvents 合并相同课程的多次发生，保留首次出现的顺序
func mergeEvents(events []parsedSessionEvent) []parsedSessionEvent {
	type key struct {
		Name      string
		Weekday   time.Weekday
		StartTime string
		EndTime   string
	}
	merged := make(map[key]*parsedSessionEvent)
	order := []key{}

	for _, e := range events {
		k := key{Name: e.Name, Weekday: e.Weekday, StartTime: e.StartTime, EndTime: e.EndTime}
		if existing, ok := merged[k]; ok {
			if existing.Room == "" {
				existing.Room = e.Room
			}
			if existing.Instructor == "" {
				existing.Instructor = e.Instructor
			}
			continue
		}
		cp := e
		merged[k] = &cp
		order = append(order, k)
	}

	result := make([]parsedSessionEvent, 0, len(merged))
	for _, k := range order {
		result = append(result, *merged[k])
	}
	return result
}

// parseICSDateTime 从 VEVENT 中解析日期时间属性
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	// 尝试多种 ICS 日期格式
	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}

	// 检查 TZID 参数
	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if strings.HasSuffix(layout, "Z") {
				return t.In(loc), nil
			}
			if tzid != "" {
				if tzLoc, err := time.LoadLocation(tzid); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, tzLoc).In(loc), nil
				}
			}
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}
