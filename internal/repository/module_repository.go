package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

// FindOwnedByID resolves a module through its course's owner. A module of a
// course the caller does not own comes back as ErrRecordNotFound.
func (r *ModuleRepository) FindOwnedByID(id, ownerID uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.Joins("JOIN courses ON courses.id = modules.course_id").
		Where("modules.id = ? AND courses.owner_id = ?", id, ownerID).
		First(&module).Error
	return &module, err
}

func (r *ModuleRepository) FindByCourse(courseID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("course_id = ?", courseID).
		Order("item_order ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Module{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) Save(module *model.Module) error {
	return r.DB.Save(module).Error
}

// Delete removes the module with its content envelopes and their items, then
// closes the order gap so the course's sequence stays dense.
func (r *ModuleRepository) Delete(module *model.Module) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteModuleContents(tx, module.ID); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(module).Error; err != nil {
			return err
		}
		return compactOrders(tx, &model.Module{}, "course_id", module.CourseID, module.Order)
	})
}

// compactOrders shifts every row after a freed slot down by one. Rows are
// walked in ascending order so each update moves into the slot the previous
// one just vacated and the unique index never sees a duplicate.
func compactOrders(tx *gorm.DB, rowModel interface{}, parentColumn string, parentID uint, freedOrder int) error {
	var ids []uint
	err := tx.Model(rowModel).
		Where(parentColumn+" = ? AND item_order > ?", parentID, freedOrder).
		Order("item_order ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := tx.Model(rowModel).Where("id = ?", id).
			Update("item_order", gorm.Expr("item_order - 1")).Error; err != nil {
			return err
		}
	}
	return nil
}

// Reorder assigns new order values to the course's modules in two passes:
// orders are first parked in negative space so the (course_id, order) unique
// index never sees an intermediate duplicate.
func (r *ModuleRepository) Reorder(courseID uint, orders map[uint]int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for id, ord := range orders {
			if err := tx.Model(&model.Module{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("item_order", -(ord + 1)).Error; err != nil {
				return err
			}
		}
		for id, ord := range orders {
			if err := tx.Model(&model.Module{}).
				Where("id = ? AND course_id = ?", id, courseID).
				Update("item_order", ord).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
