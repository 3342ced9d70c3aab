// Package seed 演示数据
// 启动时按 feature.seed_demo_data 写入所选存储引擎，花名册非空时跳过
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/repository"
)

// Demo 写入演示花名册、班级、课表与缺勤申请
// 班级成员只保留花名册中存在的学生
func Demo(ctx context.Context, repo *repository.Repository, logger *zap.Logger) error {
	existing, err := repo.Student.List(ctx)
	if err != nil {
		return fmt.Errorf("检查花名册失败: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("花名册非空，跳过演示数据")
		return nil
	}

	for i := range students {
		s := students[i]
		if err := repo.Student.Create(ctx, &s); err != nil {
			return fmt.Errorf("写入学生 %s 失败: %w", s.StudentID, err)
		}
	}

	known := make(map[string]bool, len(students))
	for _, s := range students {
		known[s.StudentID] = true
	}
	for _, c := range classes {
		members := make(model.StringList, 0, len(c.StudentIDs))
		for _, id := range c.StudentIDs {
			if known[id] {
				members = append(members, id)
			}
		}
		c.StudentIDs = members
		if err := repo.ClassGroup.Create(ctx, &c); err != nil {
			return fmt.Errorf("写入班级 %s 失败: %w", c.ClassID, err)
		}
	}

	for i := range sessions {
		s := sessions[i]
		if err := repo.CourseSession.Create(ctx, &s); err != nil {
			return fmt.Errorf("写入课程 %s 失败: %w", s.SessionID, err)
		}
	}

	for i := range claims {
		c := claims[i]
		if err := repo.AbsenceClaim.Create(ctx, &c); err != nil {
			return fmt.Errorf("写入缺勤申请 %s 失败: %w", c.ClaimID, err)
		}
	}

	logger.Info("演示数据已写入",
		zap.Int("students", len(students)),
		zap.Int("classes", len(classes)),
		zap.Int("sessions", len(sessions)),
		zap.Int("claims", len(claims)),
	)
	return nil
}

// ── 演示数据 ──

var students = []model.Student{
	{
		StudentID: "1", StudentNumber: "ST12345", FirstName: "Ahmed", LastName: "Hassan",
		Email: "student@emsi.ma", PhoneNumber: "+212 612345678", Address: "123 University Street, Casablanca",
		Department: "Computer Science", Year: "3rd Year", ClassLabel: "A",
		AbsenceCount: 12, JustifiedAbsenceCount: 8,
	},
	{
		StudentID: "2", StudentNumber: "ST12347", FirstName: "Mohammed", LastName: "Ali",
		Email: "student2@emsi.ma", PhoneNumber: "+212 612345670", Address: "456 University Avenue, Casablanca",
		Department: "Computer Science", Year: "3rd Year", ClassLabel: "A",
		AbsenceCount: 8, JustifiedAbsenceCount: 4,
	},
	{
		StudentID: "3", StudentNumber: "ST12348", FirstName: "Fatima", LastName: "Zahra",
		Email: "student3@emsi.ma", PhoneNumber: "+212 612345671", Address: "789 College Road, Casablanca",
		Department: "Computer Science", Year: "3rd Year", ClassLabel: "A",
		AbsenceCount: 5, JustifiedAbsenceCount: 3,
	},
	{
		StudentID: "4", StudentNumber: "ST12349", FirstName: "Youssef", LastName: "Benzema",
		Email: "student4@emsi.ma", PhoneNumber: "+212 612345672", Address: "101 Education Street, Casablanca",
		Department: "Computer Science", Year: "3rd Year", ClassLabel: "A",
		AbsenceCount: 3, JustifiedAbsenceCount: 2,
	},
}

var classes = []model.ClassGroup{
	{
		ClassID: "1", Name: "Informatique 3A", Department: "Computer Science", Year: "Year 3",
		StudentIDs: model.StringList{"1", "3", "4", "5"},
	},
	{
		ClassID: "2", Name: "Génie Civil 2A", Department: "Civil Engineering", Year: "Year 2",
		StudentIDs: model.StringList{"2", "6", "7", "8"},
	},
}

var sessions = []model.CourseSession{
	{SessionID: "1", Name: "Programmation Web", Room: "Salle 101", Day: "Lundi", StartTime: "09:00", EndTime: "12:00", Instructor: "Dr. Karim Benali"},
	{SessionID: "2", Name: "Algorithmes Avancés", Room: "Salle 102", Day: "Mercredi", StartTime: "08:00", EndTime: "11:00", Instructor: "Dr. Fatima Zohra"},
	{SessionID: "3", Name: "Intelligence Artificielle", Room: "Salle 305", Day: "Jeudi", StartTime: "09:00", EndTime: "12:00", Instructor: "Dr. Ahmed Bensouda"},
	{SessionID: "4", Name: "Réseau", Room: "Salle 203", Day: "Vendredi", StartTime: "13:00", EndTime: "16:00", Instructor: "Dr. Samira Talbi"},
}

var claims = []model.AbsenceClaim{
	{
		ClaimID: "1", StudentID: "1", Subject: "Mathematics", Date: "2025-04-05", Time: "10:00 AM",
		Status: model.ClaimPending, Reason: "Medical", Description: "Had a fever and could not attend class",
		DocumentRef: "/medical-certificate.pdf", SubmittedOn: "2025-04-06",
	},
	{
		ClaimID: "2", StudentID: "1", Subject: "Computer Science", Date: "2025-04-03", Time: "2:00 PM",
		Status: model.ClaimUnjustified,
	},
	{
		ClaimID: "3", StudentID: "2", Subject: "Physics", Date: "2025-04-02", Time: "9:00 AM",
		Status: model.ClaimJustified, Reason: "Family Emergency",
		Description: "Family emergency required immediate attention", SubmittedOn: "2025-04-03",
	},
}
