package model

// ClassGroup 班级表，对应 class_groups
// StudentIDs 有序保存成员学生 ID，写入时由服务层校验均存在于花名册
type ClassGroup struct {
	ClassID    string     `gorm:"type:varchar(36);primaryKey" json:"class_id"`
	Name       string     `gorm:"type:varchar(100);not null"  json:"name"`
	Department string     `gorm:"type:varchar(100)"           json:"department,omitempty"`
	Year       string     `gorm:"type:varchar(32)"            json:"year,omitempty"`
	StudentIDs StringList `gorm:"type:text;not null"          json:"student_ids"`
	BaseModel
}

// TableName 指定表名
func (ClassGroup) TableName() string { return "class_groups" }

// Clone 深拷贝（成员切片独立）
func (c ClassGroup) Clone() ClassGroup {
	c.StudentIDs = c.StudentIDs.Clone()
	return c
}
