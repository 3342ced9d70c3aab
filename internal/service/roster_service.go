package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"emsi-portal/backend/internal/dto"
	"emsi-portal/backend/internal/model"
	"emsi-portal/backend/internal/repository"
	apperrors "emsi-portal/backend/pkg/errors"
)

// RosterService 花名册业务接口（学生 + 班级成员）
//
// 删除学生不会级联处理其缺勤申请（申请保留对学生 ID 的弱引用），
// 但会把该学生从所有班级成员列表中移除；班级成员写入时必须引用存在的学生。
type RosterService interface {
	AddStudent(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error)
	UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*model.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*model.Student, error)
	UpdatePicture(ctx context.Context, id string, ref string) (*model.Student, error)
	ListStudents(ctx context.Context) ([]model.Student, error)
	GetStudent(ctx context.Context, id string) (*model.Student, error)

	CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*model.ClassGroup, error)
	ListClasses(ctx context.Context) ([]model.ClassGroup, error)
	GetClass(ctx context.Context, id string) (*model.ClassGroup, error)
	SetClassMembers(ctx context.Context, id string, studentIDs []string) (*model.ClassGroup, error)
	AddClassMember(ctx context.Context, id string, studentID string) (*model.ClassGroup, error)
}

type rosterService struct {
	repo   *repository.Repository
	lock   *StoreLock
	logger *zap.Logger
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(repo *repository.Repository, lock *StoreLock, logger *zap.Logger) RosterService {
	if lock == nil {
		lock = NewStoreLock()
	}
	return &rosterService{repo: repo, lock: lock, logger: logger}
}

// ────────────────────── AddStudent ──────────────────────

func (s *rosterService) AddStudent(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error) {
	student := &model.Student{
		StudentID:     uuid.New().String(),
		StudentNumber: strings.TrimSpace(req.StudentNumber),
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         strings.TrimSpace(req.Email),
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		Department:    req.Department,
		Year:          req.Year,
		ClassLabel:    req.ClassLabel,
		ProfileImage:  req.ProfileImage,
	}
	if err := validateStudent(student); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.checkUnique(ctx, student); err != nil {
		return nil, err
	}

	if err := s.repo.Student.Create(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Invalid("student_number", "学号或邮箱已存在")
		}
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新增学生", zap.String("student_id", student.StudentID), zap.String("student_number", student.StudentNumber))
	return student, nil
}

// ────────────────────── UpdateStudent ──────────────────────

func (s *rosterService) UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*model.Student, error) {
	return s.mutate(ctx, id, func(st *model.Student) {
		if req.StudentNumber != nil {
			st.StudentNumber = strings.TrimSpace(*req.StudentNumber)
		}
		if req.FirstName != nil {
			st.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			st.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Email != nil {
			st.Email = strings.TrimSpace(*req.Email)
		}
		if req.PhoneNumber != nil {
			st.PhoneNumber = *req.PhoneNumber
		}
		if req.Address != nil {
			st.Address = *req.Address
		}
		if req.Department != nil {
			st.Department = *req.Department
		}
		if req.Year != nil {
			st.Year = *req.Year
		}
		if req.ClassLabel != nil {
			st.ClassLabel = *req.ClassLabel
		}
		if req.AbsenceCount != nil {
			st.AbsenceCount = *req.AbsenceCount
		}
		if req.JustifiedAbsenceCount != nil {
			st.JustifiedAbsenceCount = *req.JustifiedAbsenceCount
		}
	})
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *rosterService) UpdateProfile(ctx context.Context, id string, req *dto.UpdateProfileRequest) (*model.Student, error) {
	return s.mutate(ctx, id, func(st *model.Student) {
		if req.FirstName != nil {
			st.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			st.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Email != nil {
			st.Email = strings.TrimSpace(*req.Email)
		}
		if req.PhoneNumber != nil {
			st.PhoneNumber = *req.PhoneNumber
		}
		if req.Address != nil {
			st.Address = *req.Address
		}
	})
}

// ────────────────────── UpdatePicture ──────────────────────

func (s *rosterService) UpdatePicture(ctx context.Context, id string, ref string) (*model.Student, error) {
	return s.mutate(ctx, id, func(st *model.Student) {
		st.ProfileImage = strings.TrimSpace(ref)
	})
}

// mutate 读取-合并-校验-写回，全程持写锁
func (s *rosterService) mutate(ctx context.Context, id string, apply func(*model.Student)) (*model.Student, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("student", id)
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	apply(student)

	if err := validateStudent(student); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, student); err != nil {
		return nil, err
	}

	if err := s.repo.Student.Update(ctx, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Invalid("student_number", "学号或邮箱已存在")
		}
		s.logger.Error("更新学生失败", zap.String("id", id), zap.Error(err))
		return nil, translateNotFound(err, "student", id)
	}

	return student, nil
}

// ────────────────────── DeleteStudent ──────────────────────

func (s *rosterService) DeleteStudent(ctx context.Context, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.repo.Student.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("student", id)
		}
		s.logger.Error("删除学生失败", zap.String("id", id), zap.Error(err))
		return err
	}

	pruned, err := s.repo.ClassGroup.RemoveMember(ctx, id)
	if err != nil {
		s.logger.Error("移除班级成员失败", zap.String("student_id", id), zap.Error(err))
		return err
	}

	// 缺勤申请保持不变
	s.logger.Info("删除学生", zap.String("student_id", id), zap.Int("pruned_classes", pruned))
	return nil
}

// ────────────────────── List / Get ──────────────────────

func (s *rosterService) ListStudents(ctx context.Context) ([]model.Student, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

func (s *rosterService) GetStudent(ctx context.Context, id string) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		}
		return nil, translateNotFound(err, "student", id)
	}
	return student, nil
}

// ────────────────────── Classes ──────────────────────

func (s *rosterService) CreateClass(ctx context.Context, req *dto.CreateClassRequest) (*model.ClassGroup, error) {
	if err := requireText("name", req.Name); err != nil {
		return nil, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	members, err := s.resolveMembers(ctx, req.StudentIDs)
	if err != nil {
		return nil, err
	}

	class := &model.ClassGroup{
		ClassID:    uuid.New().String(),
		Name:       strings.TrimSpace(req.Name),
		Department: req.Department,
		Year:       req.Year,
		StudentIDs: members,
	}
	if err := s.repo.ClassGroup.Create(ctx, class); err != nil {
		s.logger.Error("创建班级失败", zap.Error(err))
		return nil, err
	}
	return class, nil
}

func (s *rosterService) ListClasses(ctx context.Context) ([]model.ClassGroup, error) {
	classes, err := s.repo.ClassGroup.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}
	if classes == nil {
		classes = []model.ClassGroup{}
	}
	return classes, nil
}

func (s *rosterService) GetClass(ctx context.Context, id string) (*model.ClassGroup, error) {
	class, err := s.repo.ClassGroup.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "class", id)
	}
	return class, nil
}

func (s *rosterService) SetClassMembers(ctx context.Context, id string, studentIDs []string) (*model.ClassGroup, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	class, err := s.repo.ClassGroup.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "class", id)
	}

	members, err := s.resolveMembers(ctx, studentIDs)
	if err != nil {
		return nil, err
	}

	class.StudentIDs = members
	if err := s.repo.ClassGroup.Update(ctx, class); err != nil {
		s.logger.Error("更新班级成员失败", zap.String("class_id", id), zap.Error(err))
		return nil, translateNotFound(err, "class", id)
	}
	return class, nil
}

func (s *rosterService) AddClassMember(ctx context.Context, id string, studentID string) (*model.ClassGroup, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	class, err := s.repo.ClassGroup.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, "class", id)
	}
	if class.StudentIDs.Contains(studentID) {
		return class, nil
	}

	members, err := s.resolveMembers(ctx, append(class.StudentIDs.Clone(), studentID))
	if err != nil {
		return nil, err
	}

	class.StudentIDs = members
	if err := s.repo.ClassGroup.Update(ctx, class); err != nil {
		s.logger.Error("追加班级成员失败", zap.String("class_id", id), zap.Error(err))
		return nil, translateNotFound(err, "class", id)
	}
	return class, nil
}

// ── 内部辅助方法 ──

// resolveMembers 去重并校验每个成员都存在于花名册，调用方需持锁
func (s *rosterService) resolveMembers(ctx context.Context, ids []string) (model.StringList, error) {
	members := make(model.StringList, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, err := s.repo.Student.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.UnknownStudent(id)
			}
			return nil, err
		}
		seen[id] = true
		members = append(members, id)
	}
	return members, nil
}

// checkUnique 学号、邮箱在花名册内唯一，调用方需持锁
func (s *rosterService) checkUnique(ctx context.Context, student *model.Student) error {
	if existing, err := s.repo.Student.GetByStudentNumber(ctx, student.StudentNumber); err == nil {
		if existing.StudentID != student.StudentID {
			return apperrors.Invalid("student_number", "学号已存在")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing, err := s.repo.Student.GetByEmail(ctx, student.Email); err == nil {
		if existing.StudentID != student.StudentID {
			return apperrors.Invalid("email", "邮箱已存在")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
