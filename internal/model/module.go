package model

// Module is one ordered section of a course. Order is dense and 0-based:
// a new module is appended with order = count of existing modules, and the
// composite unique index keeps concurrent writers from producing duplicates.
// swagger:model Module
type Module struct {
	BaseModel
	CourseID    uint      `gorm:"uniqueIndex:idx_modules_course_order;not null" json:"courseId"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Order       int       `gorm:"column:item_order;uniqueIndex:idx_modules_course_order;not null;default:0" json:"order"`
	Contents    []Content `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"contents,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}
