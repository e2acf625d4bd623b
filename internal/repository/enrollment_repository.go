package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// GetOrCreate inserts the (course, user) relation if absent and reports
// whether this call created it. The insert tolerates the unique-index
// conflict instead of racing, so concurrent duplicate enrolls collapse into
// one row and at most one caller observes created=true.
func (r *EnrollmentRepository) GetOrCreate(courseID, userID uint) (bool, error) {
	enrollment := model.Enrollment{CourseID: courseID, UserID: userID}
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&enrollment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *EnrollmentRepository) Exists(courseID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// FindCoursesByUser lists the courses a student is enrolled in.
func (r *EnrollmentRepository) FindCoursesByUser(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Modules", orderedModules).
		Preload("Subject").
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userID).
		Order("enrollments.created_at DESC").
		Find(&courses).Error
	return courses, err
}
