package dto

// ── 课表模块 DTO ──

// SessionRequest 新增/替换课程时段请求
type SessionRequest struct {
	Name       string `json:"name"        binding:"required,max=100"`
	Room       string `json:"room"        binding:"omitempty,max=100"`
	Day        string `json:"day"         binding:"required"`
	StartTime  string `json:"start_time"  binding:"required"`
	EndTime    string `json:"end_time"    binding:"required"`
	Instructor string `json:"instructor"  binding:"omitempty,max=100"`
}
