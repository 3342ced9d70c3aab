package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/projection"
)

const fallbackText = "Je suis désolé, je ne comprends pas votre question. " +
	"Essayez de me demander des informations sur les absences, les cours ou l'emploi du temps."

// ────────────────────── absence ──────────────────────

func absenceRule() Rule {
	return Rule{
		Name: CategoryAbsence,
		Match: func(q string, _ *Snapshot) bool {
			return containsAny(q, "absent", "absence")
		},
		Reply: func(_ string, snap *Snapshot) string {
			if snap.Principal.IsSupervisor() {
				c := projection.CountByStatus(snap.Claims)
				return fmt.Sprintf("Il y a actuellement %d absences enregistrées pour tous les étudiants, "+
					"dont %d sont justifiées, %d non justifiées et %d en attente de justification.",
					c.Total, c.Justified, c.Unjustified, c.Pending)
			}
			c := projection.CountByStatus(projection.ClaimsOf(snap.Claims, snap.Principal.ID))
			return fmt.Sprintf("Vous avez un total de %d absences ce semestre, "+
				"dont %d justifiées, %d non justifiées et %d en attente de justification.",
				c.Total, c.Justified, c.Unjustified, c.Pending)
		},
	}
}

// ────────────────────── timetable ──────────────────────

func timetableRule(n int) Rule {
	return Rule{
		Name: CategoryTimetable,
		Match: func(q string, _ *Snapshot) bool {
			return containsAny(q, "emploi", "timetable", "cours")
		},
		Reply: func(_ string, snap *Snapshot) string {
			upcoming := UpcomingSessions(snap.Sessions, snap.Now, n)
			if len(upcoming) == 0 {
				return "Aucun cours n'est programmé pour le moment. " +
					"Vous pouvez consulter votre emploi du temps dans la section 'Emploi du temps' dans le menu."
			}
			parts := make([]string, 0, len(upcoming))
			for _, s := range upcoming {
				parts = append(parts, fmt.Sprintf("%s (%s %s)", s.Name, s.Day, s.StartTime))
			}
			return "Vous pouvez consulter votre emploi du temps dans la section 'Emploi du temps' dans le menu. " +
				"Les prochains cours sont " + strings.Join(parts, " et ") + "."
		},
	}
}

// UpcomingSessions 返回接下来的 n 个课程
// 以 now 为起点计算每个课程的下一次发生时间；当天已开始的课程顺延一周
func UpcomingSessions(sessions []model.CourseSession, now time.Time, n int) []model.CourseSession {
	sorted := make([]model.CourseSession, len(sessions))
	copy(sorted, sessions)
	model.SortSessions(sorted)

	if !now.IsZero() {
		today := model.ISOWeekday(now.Weekday())
		clock := now.Format("15:04")

		offset := func(s model.CourseSession) int {
			day := s.DayIndex()
			if day > 7 {
				return 8 // 无法识别的星期排在最后
			}
			d := (day - today + 7) % 7
			if d == 0 && s.StartTime < clock {
				d = 7
			}
			return d
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			oi, oj := offset(sorted[i]), offset(sorted[j])
			if oi != oj {
				return oi < oj
			}
			return sorted[i].StartTime < sorted[j].StartTime
		})
	}

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ────────────────────── class ──────────────────────

func classRule() Rule {
	return Rule{
		Name: CategoryClass,
		Match: func(q string, _ *Snapshot) bool {
			return containsAny(q, "classe", "class")
		},
		Reply: func(_ string, snap *Snapshot) string {
			if snap.Principal.IsSupervisor() {
				return supervisorClassSummary(snap)
			}
			return studentClassSummary(snap)
		},
	}
}

func supervisorClassSummary(snap *Snapshot) string {
	if len(snap.Classes) == 0 {
		return "Aucune classe n'est enregistrée pour le moment."
	}

	stats := projection.ClassStats(snap.Classes, snap.Students, len(snap.Sessions))
	names := make([]string, 0, len(stats))
	worst := stats[0]
	for _, st := range stats {
		names = append(names, st.Name)
		if st.AttendanceRate < worst.AttendanceRate {
			worst = st
		}
	}

	return fmt.Sprintf("Vous supervisez actuellement %d classes: %s. La classe %s a le taux d'absences le plus élevé (%d%%).",
		len(stats), strings.Join(names, ", "), worst.Name, 100-worst.AttendanceRate)
}

func studentClassSummary(snap *Snapshot) string {
	class, ok := projection.ClassOf(snap.Classes, snap.Principal.ID)
	if !ok {
		return "Vous n'êtes inscrit dans aucune classe pour le moment. Contactez votre superviseur pour plus d'informations."
	}

	sessions := len(snap.Sessions)
	var rate int
	for _, st := range projection.ClassStats([]model.ClassGroup{class}, snap.Students, sessions) {
		rate = st.AttendanceRate
	}
	avg := projection.SchoolAttendanceRate(snap.Students, sessions)

	comparison := "égal à"
	switch {
	case rate < avg:
		comparison = "inférieur à"
	case rate > avg:
		comparison = "supérieur à"
	}

	return fmt.Sprintf("Vous êtes dans la classe %s. Votre classe a un taux de présence de %d%%, ce qui est %s la moyenne de l'école (%d%%).",
		class.Name, rate, comparison, avg)
}

// ────────────────────── students ──────────────────────

func studentsRule(top int) Rule {
	return Rule{
		Name: CategoryStudents,
		Match: func(q string, snap *Snapshot) bool {
			return snap.Principal.IsSupervisor() && containsAny(q, "étudiant", "student")
		},
		Reply: func(q string, snap *Snapshot) string {
			switch {
			case containsAny(q, "nombre", "many", "combien"):
				return fmt.Sprintf("Il y a %d étudiants sous votre supervision.", len(snap.Students))
			case containsAny(q, "list", "liste"):
				names := make([]string, 0, len(snap.Students))
				for _, s := range snap.Students {
					names = append(names, s.FullName())
				}
				return fmt.Sprintf("Les étudiants sous votre supervision sont: %s.", strings.Join(names, ", "))
			// "absence élevée" / "high absence" 已被 absence 规则拦截，保留以兼容旧关键词
			case containsAny(q, "absence élevée", "high absence") || hasAnyWord(q, "top", "ranking", "pire"):
				ranked := TopAbsentees(snap.Students, top)
				parts := make([]string, 0, len(ranked))
				for _, s := range ranked {
					parts = append(parts, fmt.Sprintf("%s (%d absences)", s.FullName(), s.AbsenceCount))
				}
				return fmt.Sprintf("Les étudiants avec le plus d'absences sont: %s. Vous devriez peut-être les contacter.",
					strings.Join(parts, ", "))
			default:
				return fmt.Sprintf("Vous supervisez actuellement %d étudiants. Vous pouvez me demander: "+
					"combien d'étudiants, la liste des étudiants, ou les étudiants avec le plus d'absences.", len(snap.Students))
			}
		},
	}
}

// TopAbsentees 按缺勤数降序取前 k 个，缺勤数相同保持花名册顺序
func TopAbsentees(students []model.Student, k int) []model.Student {
	ranked := make([]model.Student, len(students))
	copy(ranked, students)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AbsenceCount > ranked[j].AbsenceCount
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// ────────────────────── greeting ──────────────────────

func greetingRule() Rule {
	return Rule{
		Name: CategoryGreeting,
		Match: func(q string, _ *Snapshot) bool {
			return containsAny(q, "bonjour", "hello", "salut") || hasWord(q, "hi")
		},
		Reply: func(_ string, snap *Snapshot) string {
			if snap.Principal.IsSupervisor() {
				return "Bonjour! Je suis votre assistant pour la gestion des absences. Comment puis-je vous aider aujourd'hui? " +
					"Vous pouvez me demander des informations sur les étudiants, les absences, ou les emplois du temps."
			}
			return "Bonjour! Je suis votre assistant pour suivre vos absences. Comment puis-je vous aider aujourd'hui? " +
				"Vous pouvez me demander des informations sur vos absences ou votre emploi du temps."
		},
	}
}
