package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	OwnerID   uint     `gorm:"index;not null" json:"owner"`
	Owner     User     `gorm:"foreignKey:OwnerID" json:"-"`
	SubjectID uint     `gorm:"index;not null" json:"subject"`
	Subject   Subject  `gorm:"foreignKey:SubjectID" json:"-"`
	Title     string   `gorm:"size:200;not null" json:"title"`
	Slug      string   `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Overview  string   `gorm:"type:text" json:"overview"`
	Modules   []Module `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment is the Course-Student relation. The composite unique index is
// what makes concurrent duplicate enrolls collapse into a single row.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  uint      `gorm:"uniqueIndex:idx_enrollments_course_user;not null" json:"courseId"`
	UserID    uint      `gorm:"uniqueIndex:idx_enrollments_course_user;not null" json:"userId"`
	CreatedAt time.Time `json:"enrolledAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
