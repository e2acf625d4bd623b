package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

// SubjectWithTotal is a subject row annotated with its course count.
type SubjectWithTotal struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	TotalCourses int64  `json:"totalCourses"`
}

// PopularCourse is a course title annotated with its enrolled-student count.
type PopularCourse struct {
	Title         string `json:"title"`
	TotalStudents int64  `json:"totalStudents"`
}

func (r *SubjectRepository) FindAllWithTotals() ([]SubjectWithTotal, error) {
	var rows []SubjectWithTotal
	err := r.DB.Model(&model.Subject{}).
		Select("subjects.id, subjects.title, subjects.slug, COUNT(courses.id) AS total_courses").
		Joins("LEFT JOIN courses ON courses.subject_id = subjects.id AND courses.deleted_at IS NULL").
		Group("subjects.id").
		Order("subjects.title ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *SubjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.First(&subject, id).Error
	return &subject, err
}

func (r *SubjectRepository) FindBySlug(slug string) (*model.Subject, error) {
	var subject model.Subject
	err := r.DB.Where("slug = ?", slug).First(&subject).Error
	return &subject, err
}

// FindPopularCourses returns the subject's top courses by enrolled students.
func (r *SubjectRepository) FindPopularCourses(subjectID uint, limit int) ([]PopularCourse, error) {
	var rows []PopularCourse
	err := r.DB.Model(&model.Course{}).
		Select("courses.title, COUNT(enrollments.id) AS total_students").
		Joins("LEFT JOIN enrollments ON enrollments.course_id = courses.id").
		Where("courses.subject_id = ?", subjectID).
		Group("courses.id").
		Order("total_students DESC, courses.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *SubjectRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Subject{}).Count(&count).Error
	return count, err
}
