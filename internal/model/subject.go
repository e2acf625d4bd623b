package model

// Subject groups courses into a browsable category. Slug is the stable
// URL-safe identifier used by the catalog routes.
// swagger:model Subject
type Subject struct {
	BaseModel
	Title   string   `gorm:"size:200;not null" json:"title"`
	Slug    string   `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Courses []Course `gorm:"foreignKey:SubjectID" json:"-"`
}

func (Subject) TableName() string {
	return "subjects"
}
