package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emsi-portal/backend/internal/model"
)

var (
	supervisor = model.Principal{ID: "sup-1", Role: model.RoleSupervisor}
	student1   = model.Principal{ID: "1", Role: model.RoleStudent}
)

func fixtureSnapshot(p model.Principal) Snapshot {
	return Snapshot{
		Principal: p,
		Students: []model.Student{
			{StudentID: "1", FirstName: "Ahmed", LastName: "Hassan", AbsenceCount: 2},
			{StudentID: "2", FirstName: "Mohammed", LastName: "Ali", AbsenceCount: 2},
			{StudentID: "3", FirstName: "Fatima", LastName: "Zahra", AbsenceCount: 0},
			{StudentID: "4", FirstName: "Youssef", LastName: "Benzema", AbsenceCount: 1},
		},
		Classes: []model.ClassGroup{
			{ClassID: "c1", Name: "Informatique 3A", StudentIDs: model.StringList{"1", "3", "4"}},
			{ClassID: "c2", Name: "Génie Civil 2A", StudentIDs: model.StringList{"2"}},
		},
		Sessions: []model.CourseSession{
			{SessionID: "k3", Name: "Intelligence Artificielle", Day: "Jeudi", StartTime: "09:00"},
			{SessionID: "k1", Name: "Programmation Web", Day: "Lundi", StartTime: "09:00"},
			{SessionID: "k4", Name: "Réseau", Day: "Vendredi", StartTime: "13:00"},
			{SessionID: "k2", Name: "Algorithmes Avancés", Day: "Mercredi", StartTime: "08:00"},
		},
		Claims: []model.AbsenceClaim{
			{ClaimID: "1", StudentID: "1", Subject: "Mathematics", Status: model.ClaimPending},
			{ClaimID: "2", StudentID: "1", Subject: "Computer Science", Status: model.ClaimUnjustified},
			{ClaimID: "3", StudentID: "2", Subject: "Physics", Status: model.ClaimJustified},
		},
	}
}

func TestRespond_StudentCountForSupervisor(t *testing.T) {
	r := NewResponder(DefaultOptions())

	reply := r.Respond("combien d'étudiants", fixtureSnapshot(supervisor))

	assert.Equal(t, CategoryStudents, reply.Category)
	assert.Contains(t, reply.Text, "4")
	assert.Equal(t, "Il y a 4 étudiants sous votre supervision.", reply.Text)
}

func TestRespond_GreetingIsRoleScoped(t *testing.T) {
	r := NewResponder(DefaultOptions())

	stu := r.Respond("bonjour", fixtureSnapshot(student1))
	sup := r.Respond("bonjour", fixtureSnapshot(supervisor))

	assert.Equal(t, CategoryGreeting, stu.Category)
	assert.Contains(t, stu.Text, "suivre vos absences")
	assert.NotEqual(t, sup.Text, stu.Text)
	assert.Contains(t, sup.Text, "gestion des absences")
}

func TestRespond_AbsenceCounts(t *testing.T) {
	r := NewResponder(DefaultOptions())

	stu := r.Respond("Mes absences ?", fixtureSnapshot(student1))
	assert.Equal(t, CategoryAbsence, stu.Category)
	assert.Equal(t, "Vous avez un total de 2 absences ce semestre, dont 0 justifiées, 1 non justifiées et 1 en attente de justification.", stu.Text)

	sup := r.Respond("Who was absent?", fixtureSnapshot(supervisor))
	assert.Equal(t, CategoryAbsence, sup.Category)
	assert.Equal(t, "Il y a actuellement 3 absences enregistrées pour tous les étudiants, dont 1 sont justifiées, 1 non justifiées et 1 en attente de justification.", sup.Text)
}

func TestRespond_Timetable(t *testing.T) {
	r := NewResponder(DefaultOptions())

	snap := fixtureSnapshot(student1)
	reply := r.Respond("Mon emploi du temps", snap)
	assert.Equal(t, CategoryTimetable, reply.Category)
	assert.Contains(t, reply.Text, "Les prochains cours sont Programmation Web (Lundi 09:00) et Algorithmes Avancés (Mercredi 08:00).")

	// 2025-04-09 为周三，08:00 的课已开始，顺延到下周
	snap.Now = time.Date(2025, 4, 9, 10, 0, 0, 0, time.UTC)
	reply = r.Respond("prochain cours", snap)
	assert.Contains(t, reply.Text, "Intelligence Artificielle (Jeudi 09:00) et Réseau (Vendredi 13:00)")

	empty := fixtureSnapshot(student1)
	empty.Sessions = nil
	reply = r.Respond("timetable", empty)
	assert.Equal(t, CategoryTimetable, reply.Category)
	assert.Contains(t, reply.Text, "Aucun cours")
}

func TestUpcomingSessions_WrapsAroundWeek(t *testing.T) {
	snap := fixtureSnapshot(student1)
	// 周五 14:00：周五的课已开始，下一节是周一
	now := time.Date(2025, 4, 11, 14, 0, 0, 0, time.UTC)

	got := UpcomingSessions(snap.Sessions, now, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"k1", "k2", "k3"}, []string{got[0].SessionID, got[1].SessionID, got[2].SessionID})
	assert.Equal(t, "k3", snap.Sessions[0].SessionID, "输入切片不应被重排")
}

func TestRespond_ClassSummary(t *testing.T) {
	r := NewResponder(DefaultOptions())

	sup := r.Respond("Quelle classe ?", fixtureSnapshot(supervisor))
	assert.Equal(t, CategoryClass, sup.Category)
	assert.Equal(t, "Vous supervisez actuellement 2 classes: Informatique 3A, Génie Civil 2A. "+
		"La classe Génie Civil 2A a le taux d'absences le plus élevé (50%).", sup.Text)

	stu := r.Respond("ma classe", fixtureSnapshot(student1))
	assert.Equal(t, "Vous êtes dans la classe Informatique 3A. Votre classe a un taux de présence de 75%, "+
		"ce qui est supérieur à la moyenne de l'école (69%).", stu.Text)

	loner := fixtureSnapshot(model.Principal{ID: "9", Role: model.RoleStudent})
	reply := r.Respond("class", loner)
	assert.Equal(t, CategoryClass, reply.Category)
	assert.Contains(t, reply.Text, "aucune classe")
}

func TestRespond_StudentsSubIntents(t *testing.T) {
	r := NewResponder(DefaultOptions())
	snap := fixtureSnapshot(supervisor)

	list := r.Respond("liste des étudiants", snap)
	assert.Equal(t, "Les étudiants sous votre supervision sont: Ahmed Hassan, Mohammed Ali, Fatima Zahra, Youssef Benzema.", list.Text)

	top := r.Respond("top students", snap)
	assert.Equal(t, CategoryStudents, top.Category)
	assert.Equal(t, "Les étudiants avec le plus d'absences sont: Ahmed Hassan (2 absences), Mohammed Ali (2 absences). "+
		"Vous devriez peut-être les contacter.", top.Text)

	for _, q := range []string{"student laptop", "stop student", "student desktop"} {
		reply := r.Respond(q, snap)
		assert.Equal(t, CategoryStudents, reply.Category, q)
		assert.Contains(t, reply.Text, "Vous supervisez actuellement 4 étudiants.", q)
	}

	help := r.Respond("ÉTUDIANTS", snap)
	assert.Equal(t, CategoryStudents, help.Category)
	assert.Contains(t, help.Text, "Vous supervisez actuellement 4 étudiants.")
}

func TestRespond_HighAbsenceKeywordIsShadowedByAbsenceRule(t *testing.T) {
	r := NewResponder(DefaultOptions())

	reply := r.Respond("étudiants avec absence élevée", fixtureSnapshot(supervisor))

	assert.Equal(t, CategoryAbsence, reply.Category)
}

func TestRespond_StudentsRuleIsSupervisorOnly(t *testing.T) {
	r := NewResponder(DefaultOptions())

	reply := r.Respond("combien d'étudiants", fixtureSnapshot(student1))

	assert.Equal(t, CategoryFallback, reply.Category)
}

func TestRespond_HiMatchesWholeWordOnly(t *testing.T) {
	r := NewResponder(DefaultOptions())
	snap := fixtureSnapshot(student1)

	assert.Equal(t, CategoryGreeting, r.Respond("Hi!", snap).Category)
	assert.Equal(t, CategoryGreeting, r.Respond("oh hi there", snap).Category)
	assert.Equal(t, CategoryFallback, r.Respond("this is something", snap).Category)
	assert.Equal(t, CategoryFallback, r.Respond("architecture", snap).Category)
}

func TestRespond_Fallback(t *testing.T) {
	r := NewResponder(DefaultOptions())

	reply := r.Respond("quelle heure est-il", fixtureSnapshot(supervisor))

	assert.Equal(t, CategoryFallback, reply.Category)
	assert.Contains(t, reply.Text, "je ne comprends pas")
}

func TestRespond_PriorityOrder(t *testing.T) {
	r := NewResponder(DefaultOptions())

	// 同时包含多个类别关键词时，优先级高的规则胜出
	reply := r.Respond("bonjour, absences de la classe ?", fixtureSnapshot(supervisor))
	assert.Equal(t, CategoryAbsence, reply.Category)

	reply = r.Respond("bonjour, cours de la classe ?", fixtureSnapshot(supervisor))
	assert.Equal(t, CategoryTimetable, reply.Category)

	names := make([]Category, 0)
	for _, rule := range r.Rules() {
		names = append(names, rule.Name)
	}
	assert.Equal(t, []Category{CategoryAbsence, CategoryTimetable, CategoryClass, CategoryStudents, CategoryGreeting}, names)
}

func TestRespond_DoesNotMutateSnapshot(t *testing.T) {
	r := NewResponder(Options{UpcomingSessions: 1, TopAbsentees: 1})
	snap := fixtureSnapshot(supervisor)
	snap.Students[3].AbsenceCount = 9

	reply := r.Respond("top étudiants", snap)

	assert.Contains(t, reply.Text, "Youssef Benzema (9 absences)")
	assert.NotContains(t, reply.Text, "Ahmed")
	assert.Equal(t, "1", snap.Students[0].StudentID)
}

func TestTopAbsentees_StableTieBreak(t *testing.T) {
	students := []model.Student{
		{StudentID: "a", AbsenceCount: 3},
		{StudentID: "b", AbsenceCount: 5},
		{StudentID: "c", AbsenceCount: 3},
		{StudentID: "d", AbsenceCount: 5},
	}

	got := TopAbsentees(students, 3)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "d", "a"}, []string{got[0].StudentID, got[1].StudentID, got[2].StudentID})
}
