package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func orderedModules(db *gorm.DB) *gorm.DB {
	return db.Order("item_order ASC")
}

// orderedContents applies the canonical content ordering: ascending order
// with id as the deterministic tie-break.
func orderedContents(db *gorm.DB) *gorm.DB {
	return db.Order("item_order ASC, id ASC")
}

func (r *CourseRepository) FindAll(offset, limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Modules", orderedModules).
		Preload("Subject").
		Order("courses.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindBySubject(subjectID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Modules", orderedModules).
		Preload("Subject").
		Where("subject_id = ?", subjectID).
		Order("courses.created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Modules", orderedModules).
		Preload("Subject").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Modules", orderedModules).
		Preload("Subject").
		Where("slug = ?", slug).
		First(&course).Error
	return &course, err
}

// FindWithContents loads the full course tree: modules in order, each with
// its content envelopes in (order, id) order. Items are resolved separately
// through the content repository.
func (r *CourseRepository) FindWithContents(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Modules", orderedModules).
		Preload("Modules.Contents", orderedContents).
		Preload("Subject").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *CourseRepository) SlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.DB.Model(&model.Course{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// ---- owner-scoped queries ----
//
// Every mutation path goes through these: the owner filter is part of the
// query itself, so a course that exists but belongs to someone else is
// indistinguishable from one that does not exist.

func (r *CourseRepository) FindOwned(ownerID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Preload("Modules", orderedModules).
		Preload("Subject").
		Where("owner_id = ?", ownerID).
		Order("courses.created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindOwnedByID(id, ownerID uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&course).Error
	return &course, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete removes the course and everything under it: modules, content
// envelopes and their items. Rows are removed physically so slugs and order
// slots can be reused afterwards.
func (r *CourseRepository) Delete(course *model.Course) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var modules []model.Module
		if err := tx.Where("course_id = ?", course.ID).Find(&modules).Error; err != nil {
			return err
		}
		for _, m := range modules {
			if err := deleteModuleContents(tx, m.ID); err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&model.Module{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(course).Error
	})
}
