package model

// CourseSession 课程时段表，对应 course_sessions
// 纯描述性数据，不与花名册或缺勤台账关联
type CourseSession struct {
	SessionID  string `gorm:"type:varchar(36);primaryKey" json:"session_id"`
	Name       string `gorm:"type:varchar(100);not null"  json:"name"`
	Room       string `gorm:"type:varchar(100)"           json:"room,omitempty"`
	Day        string `gorm:"type:varchar(16);not null"   json:"day"` // Lundi | Monday ...
	StartTime  string `gorm:"type:varchar(5);not null"    json:"start_time"`
	EndTime    string `gorm:"type:varchar(5);not null"    json:"end_time"`
	Instructor string `gorm:"type:varchar(100)"           json:"instructor,omitempty"`
	BaseModel
}

// TableName 指定表名
func (CourseSession) TableName() string { return "course_sessions" }
