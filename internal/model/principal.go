package model

// Role 调用方角色
type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
)

// Valid 是否为已知角色
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleSupervisor
}

// Principal 已认证调用方描述（由认证协作方提供，核心不做凭据校验）
// 学生身份下 ID 即 Student.StudentID
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsSupervisor 是否为督导
func (p Principal) IsSupervisor() bool {
	return p.Role == RoleSupervisor
}
