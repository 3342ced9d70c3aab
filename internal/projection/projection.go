// Package projection 只读派生视图
//
// 所有函数都是纯函数：输入为存储快照，输出为新构造的值，不修改输入，也不缓存结果。
package projection

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"emsi-portal/backend/internal/model"
)

// ── 导出行 ──

// ExportHeader 导出文件表头（与 ExportRow.Record 列顺序一致）
var ExportHeader = []string{"ID", "Nom", "Prénom", "Email", "Département", "Année", "Classe", "Absences", "Absences Justifiées"}

// ExportRow 单个学生的固定列导出行
type ExportRow struct {
	StudentNumber string `json:"student_number"`
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Email         string `json:"email"`
	Department    string `json:"department"`
	Year          string `json:"year"`
	Class         string `json:"class"`
	Absences      int    `json:"absences"`
	Justified     int    `json:"justified_absences"`
}

// ExportRows 每个学生一行，顺序与花名册一致
func ExportRows(students []model.Student) []ExportRow {
	rows := make([]ExportRow, 0, len(students))
	for _, s := range students {
		class := s.ClassLabel
		if strings.TrimSpace(class) == "" {
			class = "N/A"
		}
		rows = append(rows, ExportRow{
			StudentNumber: s.StudentNumber,
			LastName:      s.LastName,
			FirstName:     s.FirstName,
			Email:         s.Email,
			Department:    s.Department,
			Year:          s.Year,
			Class:         class,
			Absences:      s.AbsenceCount,
			Justified:     s.JustifiedAbsenceCount,
		})
	}
	return rows
}

// Record 按表头顺序输出字符串列
func (r ExportRow) Record() []string {
	return []string{
		r.StudentNumber,
		r.LastName,
		r.FirstName,
		r.Email,
		r.Department,
		r.Year,
		r.Class,
		strconv.Itoa(r.Absences),
		strconv.Itoa(r.Justified),
	}
}

// ── 状态统计 ──

// StatusCounts 缺勤申请按状态计数
type StatusCounts struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Justified   int `json:"justified"`
	Unjustified int `json:"unjustified"`
}

// CountByStatus 统计申请状态
func CountByStatus(claims []model.AbsenceClaim) StatusCounts {
	var c StatusCounts
	for _, claim := range claims {
		c.Total++
		switch claim.Status {
		case model.ClaimPending:
			c.Pending++
		case model.ClaimJustified:
			c.Justified++
		case model.ClaimUnjustified:
			c.Unjustified++
		}
	}
	return c
}

// ClaimsOf 筛选指定学生的申请
func ClaimsOf(claims []model.AbsenceClaim, studentID string) []model.AbsenceClaim {
	out := make([]model.AbsenceClaim, 0)
	for _, c := range claims {
		if c.StudentID == studentID {
			out = append(out, c)
		}
	}
	return out
}

// ── 出勤率 ──

// AttendanceRate 出勤率百分比：round(100 - absences / (members*sessions) * 100)
// 分母为 0 时视为 100；缺勤数超过应到次数时记为 0
func AttendanceRate(absences, members, sessions int) int {
	possible := members * sessions
	if possible == 0 {
		return 100
	}
	rate := roundHalfUp(100 - float64(absences)/float64(possible)*100)
	if rate < 0 {
		return 0
	}
	return rate
}

// roundHalfUp .5 向正无穷舍入
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ClassStat 班级统计
type ClassStat struct {
	ClassID        string `json:"class_id"`
	Name           string `json:"name"`
	Members        int    `json:"members"`
	TotalAbsences  int    `json:"total_absences"`
	AttendanceRate int    `json:"attendance_rate"`
}

// ClassStats 按班级汇总，只统计仍在花名册中的成员
func ClassStats(classes []model.ClassGroup, students []model.Student, sessionCount int) []ClassStat {
	byID := make(map[string]model.Student, len(students))
	for _, s := range students {
		byID[s.StudentID] = s
	}

	stats := make([]ClassStat, 0, len(classes))
	for _, c := range classes {
		st := ClassStat{ClassID: c.ClassID, Name: c.Name}
		for _, id := range c.StudentIDs {
			s, ok := byID[id]
			if !ok {
				continue
			}
			st.Members++
			st.TotalAbsences += s.AbsenceCount
		}
		st.AttendanceRate = AttendanceRate(st.TotalAbsences, st.Members, sessionCount)
		stats = append(stats, st)
	}
	return stats
}

// SchoolAttendanceRate 全校出勤率（按学生记录的缺勤数）
func SchoolAttendanceRate(students []model.Student, sessionCount int) int {
	total := 0
	for _, s := range students {
		total += s.AbsenceCount
	}
	return AttendanceRate(total, len(students), sessionCount)
}

// ClassOf 返回包含该学生的第一个班级
func ClassOf(classes []model.ClassGroup, studentID string) (model.ClassGroup, bool) {
	for _, c := range classes {
		if c.StudentIDs.Contains(studentID) {
			return c, true
		}
	}
	return model.ClassGroup{}, false
}

// ── 概览 ──

// Overview 仪表盘概览
type Overview struct {
	Claims         StatusCounts         `json:"claims"`
	TotalStudents  int                  `json:"total_students,omitempty"`
	TotalClasses   int                  `json:"total_classes,omitempty"`
	AbsencesToday  int                  `json:"absences_today"`
	AttendanceRate int                  `json:"attendance_rate"`
	Recent         []model.AbsenceClaim `json:"recent"`
}

// OverviewInput 概览计算所需快照
type OverviewInput struct {
	Principal model.Principal
	Students  []model.Student
	Classes   []model.ClassGroup
	Claims    []model.AbsenceClaim
	Sessions  int
	Today     string // YYYY-MM-DD
	RecentMax int
}

// BuildOverview 督导看到全局数据，学生只看到自己的申请
func BuildOverview(in OverviewInput) Overview {
	claims := in.Claims
	if !in.Principal.IsSupervisor() {
		claims = ClaimsOf(in.Claims, in.Principal.ID)
	}

	ov := Overview{Claims: CountByStatus(claims)}
	for _, c := range claims {
		if c.Date == in.Today {
			ov.AbsencesToday++
		}
	}

	if in.Principal.IsSupervisor() {
		ov.TotalStudents = len(in.Students)
		ov.TotalClasses = len(in.Classes)
		ov.AttendanceRate = AttendanceRate(ov.Claims.Total, len(in.Students), in.Sessions)
	} else {
		ov.AttendanceRate = AttendanceRate(ov.Claims.Total, 1, in.Sessions)
	}

	recent := SortRecent(claims)
	if in.RecentMax > 0 && len(recent) > in.RecentMax {
		recent = recent[:in.RecentMax]
	}
	ov.Recent = recent
	return ov
}

// SortRecent 按缺勤日期倒序、提交日期倒序排列（返回新切片）
func SortRecent(claims []model.AbsenceClaim) []model.AbsenceClaim {
	out := make([]model.AbsenceClaim, len(claims))
	copy(out, claims)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].SubmittedOn > out[j].SubmittedOn
	})
	return out
}
