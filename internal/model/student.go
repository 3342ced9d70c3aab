package model

// Student 学生花名册表，对应 students
type Student struct {
	StudentID             string `gorm:"type:varchar(36);primaryKey"             json:"student_id"`
	StudentNumber         string `gorm:"type:varchar(32);not null;uniqueIndex"   json:"student_number"` // 学号，例如 ST12345
	FirstName             string `gorm:"type:varchar(100);not null"              json:"first_name"`
	LastName              string `gorm:"type:varchar(100);not null"              json:"last_name"`
	Email                 string `gorm:"type:varchar(255);not null;uniqueIndex"  json:"email"`
	PhoneNumber           string `gorm:"type:varchar(32)"                        json:"phone_number,omitempty"`
	Address               string `gorm:"type:varchar(255)"                       json:"address,omitempty"`
	Department            string `gorm:"type:varchar(100)"                       json:"department,omitempty"`
	Year                  string `gorm:"type:varchar(32)"                        json:"year,omitempty"`
	ClassLabel            string `gorm:"type:varchar(32)"                        json:"class_label,omitempty"`
	AbsenceCount          int    `gorm:"not null;default:0"                      json:"absence_count"`
	JustifiedAbsenceCount int    `gorm:"not null;default:0"                      json:"justified_absence_count"`
	ProfileImage          string `gorm:"type:varchar(500)"                       json:"profile_image,omitempty"` // 不透明引用，不存储文件
	BaseModel
}

// TableName 指定表名
func (Student) TableName() string { return "students" }

// FullName 展示用姓名（名 + 姓）
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
