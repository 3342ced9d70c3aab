package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/repository"
)

// runContract 两种存储引擎共用的行为约定
func runContract(t *testing.T, newRepo func(t *testing.T) *repository.Repository) {
	t.Run("Student", func(t *testing.T) { testStudentContract(t, newRepo(t)) })
	t.Run("ClassGroup", func(t *testing.T) { testClassGroupContract(t, newRepo(t)) })
	t.Run("CourseSession", func(t *testing.T) { testCourseSessionContract(t, newRepo(t)) })
	t.Run("AbsenceClaim", func(t *testing.T) { testAbsenceClaimContract(t, newRepo(t)) })
	t.Run("ChatMessage", func(t *testing.T) { testChatMessageContract(t, newRepo(t)) })
}

func student(id, number, email string) *model.Student {
	return &model.Student{
		StudentID:     id,
		StudentNumber: number,
		FirstName:     "Ahmed",
		LastName:      "Hassan",
		Email:         email,
	}
}

func testStudentContract(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()

	require.NoError(t, repo.Student.Create(ctx, student("s1", "ST1", "a@emsi.ma")))
	require.NoError(t, repo.Student.Create(ctx, student("s2", "ST2", "b@emsi.ma")))
	require.NoError(t, repo.Student.Create(ctx, student("s3", "ST3", "c@emsi.ma")))

	err := repo.Student.Create(ctx, student("s4", "ST1", "d@emsi.ma"))
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "重复学号应返回 ErrDuplicatedKey，实际: %v", err)

	list, err := repo.Student.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"s1", "s2", "s3"}, []string{list[0].StudentID, list[1].StudentID, list[2].StudentID})

	// 读出的副本被修改不影响存储
	list[0].FirstName = "Mutated"
	got, err := repo.Student.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", got.FirstName)

	byNumber, err := repo.Student.GetByStudentNumber(ctx, "ST2")
	require.NoError(t, err)
	assert.Equal(t, "s2", byNumber.StudentID)

	byEmail, err := repo.Student.GetByEmail(ctx, "c@emsi.ma")
	require.NoError(t, err)
	assert.Equal(t, "s3", byEmail.StudentID)

	got.AbsenceCount = 5
	got.JustifiedAbsenceCount = 2
	require.NoError(t, repo.Student.Update(ctx, got))
	updated, err := repo.Student.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.AbsenceCount)
	assert.Equal(t, 2, updated.JustifiedAbsenceCount)
	assert.False(t, updated.CreatedAt.IsZero())

	missing := student("ghost", "ST9", "g@emsi.ma")
	assert.ErrorIs(t, repo.Student.Update(ctx, missing), gorm.ErrRecordNotFound)

	require.NoError(t, repo.Student.Delete(ctx, "s2"))
	assert.ErrorIs(t, repo.Student.Delete(ctx, "s2"), gorm.ErrRecordNotFound)
	_, err = repo.Student.GetByID(ctx, "s2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, err = repo.Student.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func testClassGroupContract(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()

	require.NoError(t, repo.ClassGroup.Create(ctx, &model.ClassGroup{
		ClassID:    "c1",
		Name:       "Informatique 3A",
		StudentIDs: model.StringList{"1", "3", "4"},
	}))
	require.NoError(t, repo.ClassGroup.Create(ctx, &model.ClassGroup{
		ClassID:    "c2",
		Name:       "Génie Civil 2A",
		StudentIDs: model.StringList{"2", "3"},
	}))
	require.NoError(t, repo.ClassGroup.Create(ctx, &model.ClassGroup{ClassID: "c3", Name: "Vide"}))

	empty, err := repo.ClassGroup.GetByID(ctx, "c3")
	require.NoError(t, err)
	assert.NotNil(t, empty.StudentIDs)
	assert.Empty(t, empty.StudentIDs)

	affected, err := repo.ClassGroup.RemoveMember(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	c1, err := repo.ClassGroup.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"1", "4"}, c1.StudentIDs)

	c1.StudentIDs = append(c1.StudentIDs, "9")
	again, err := repo.ClassGroup.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, again.StudentIDs, 2, "读出的成员切片应为独立副本")

	require.NoError(t, repo.ClassGroup.Update(ctx, c1))
	classes, err := repo.ClassGroup.List(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 3)
	assert.Equal(t, model.StringList{"1", "4", "9"}, classes[0].StudentIDs)
	assert.Equal(t, model.StringList{"2"}, classes[1].StudentIDs)

	assert.ErrorIs(t, repo.ClassGroup.Update(ctx, &model.ClassGroup{ClassID: "nope", Name: "x"}), gorm.ErrRecordNotFound)
}

func testCourseSessionContract(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()

	s := &model.CourseSession{SessionID: "k1", Name: "Réseau", Day: "Vendredi", StartTime: "13:00", EndTime: "16:00"}
	require.NoError(t, repo.CourseSession.Create(ctx, s))

	s.Room = "Salle 203"
	require.NoError(t, repo.CourseSession.Update(ctx, s))

	got, err := repo.CourseSession.GetByID(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "Salle 203", got.Room)

	require.NoError(t, repo.CourseSession.Delete(ctx, "k1"))
	assert.ErrorIs(t, repo.CourseSession.Delete(ctx, "k1"), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.CourseSession.Update(ctx, s), gorm.ErrRecordNotFound)

	list, err := repo.CourseSession.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testAbsenceClaimContract(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()

	for _, c := range []model.AbsenceClaim{
		{ClaimID: "a1", StudentID: "1", Subject: "Mathematics", Date: "2025-04-05", Time: "10:00 AM", Status: model.ClaimPending},
		{ClaimID: "a2", StudentID: "1", Subject: "Computer Science", Date: "2025-04-03", Time: "2:00 PM", Status: model.ClaimUnjustified},
		{ClaimID: "a3", StudentID: "2", Subject: "Physics", Date: "2025-04-02", Time: "9:00 AM", Status: model.ClaimJustified},
	} {
		claim := c
		require.NoError(t, repo.AbsenceClaim.Create(ctx, &claim))
	}

	byStudent, err := repo.AbsenceClaim.ListByStudent(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, byStudent, 2)

	counts, err := repo.AbsenceClaim.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.ClaimPending])
	assert.Equal(t, int64(1), counts[model.ClaimJustified])
	assert.Equal(t, int64(1), counts[model.ClaimUnjustified])

	require.NoError(t, repo.AbsenceClaim.UpdateStatus(ctx, "a1", model.ClaimJustified, "2025-04-07"))
	got, err := repo.AbsenceClaim.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, model.ClaimJustified, got.Status)
	assert.Equal(t, "2025-04-07", got.ReviewedOn)
	assert.Equal(t, "Mathematics", got.Subject)

	pending, err := repo.AbsenceClaim.ListByStatus(ctx, model.ClaimPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, repo.AbsenceClaim.UpdateStatus(ctx, "zz", model.ClaimJustified, ""), gorm.ErrRecordNotFound)

	all, err := repo.AbsenceClaim.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testChatMessageContract(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()

	require.NoError(t, repo.ChatMessage.Append(ctx, &model.ChatMessage{MessageID: "m1", OwnerID: "1", Text: "bonjour", Sender: model.SenderUser}))
	require.NoError(t, repo.ChatMessage.Append(ctx, &model.ChatMessage{MessageID: "m2", OwnerID: "sup", Text: "hello", Sender: model.SenderUser}))
	require.NoError(t, repo.ChatMessage.Append(ctx, &model.ChatMessage{MessageID: "m3", OwnerID: "1", Text: "Bonjour!", Sender: model.SenderBot}))

	msgs, err := repo.ChatMessage.ListByOwner(ctx, "1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Equal(t, model.SenderBot, msgs[1].Sender)
}
