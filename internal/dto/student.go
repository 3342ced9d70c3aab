package dto

// ── 花名册模块 DTO ──

// CreateStudentRequest 新增学生请求
type CreateStudentRequest struct {
	StudentNumber string `json:"student_number" binding:"required,max=32"`
	FirstName     string `json:"first_name"     binding:"required,max=100"`
	LastName      string `json:"last_name"      binding:"required,max=100"`
	Email         string `json:"email"          binding:"required,max=255"`
	PhoneNumber   string `json:"phone_number"   binding:"omitempty,max=32"`
	Address       string `json:"address"        binding:"omitempty,max=255"`
	Department    string `json:"department"     binding:"omitempty,max=100"`
	Year          string `json:"year"           binding:"omitempty,max=32"`
	ClassLabel    string `json:"class_label"    binding:"omitempty,max=32"`
	ProfileImage  string `json:"profile_image"  binding:"omitempty,max=500"`
}

// UpdateStudentRequest 编辑学生请求（部分字段合并）
type UpdateStudentRequest struct {
	StudentNumber         *string `json:"student_number"          binding:"omitempty,max=32"`
	FirstName             *string `json:"first_name"              binding:"omitempty,max=100"`
	LastName              *string `json:"last_name"               binding:"omitempty,max=100"`
	Email                 *string `json:"email"                   binding:"omitempty,max=255"`
	PhoneNumber           *string `json:"phone_number"            binding:"omitempty,max=32"`
	Address               *string `json:"address"                 binding:"omitempty,max=255"`
	Department            *string `json:"department"              binding:"omitempty,max=100"`
	Year                  *string `json:"year"                    binding:"omitempty,max=32"`
	ClassLabel            *string `json:"class_label"             binding:"omitempty,max=32"`
	AbsenceCount          *int    `json:"absence_count"           binding:"omitempty,min=0"`
	JustifiedAbsenceCount *int    `json:"justified_absence_count" binding:"omitempty,min=0"`
}

// UpdateProfileRequest 个人资料更新（仅联系方式类字段）
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"   binding:"omitempty,max=100"`
	LastName    *string `json:"last_name"    binding:"omitempty,max=100"`
	Email       *string `json:"email"        binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=32"`
	Address     *string `json:"address"      binding:"omitempty,max=255"`
}

// UpdatePictureRequest 头像引用更新
type UpdatePictureRequest struct {
	ProfileImage string `json:"profile_image" binding:"max=500"`
}

// ── 班级 DTO ──

// CreateClassRequest 新建班级请求
type CreateClassRequest struct {
	Name       string   `json:"name"        binding:"required,max=100"`
	Department string   `json:"department"  binding:"omitempty,max=100"`
	Year       string   `json:"year"        binding:"omitempty,max=32"`
	StudentIDs []string `json:"student_ids"`
}

// SetClassMembersRequest 整体替换班级成员
type SetClassMembersRequest struct {
	StudentIDs []string `json:"student_ids"`
}

// AddClassMemberRequest 追加单个成员
type AddClassMemberRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}
