package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) FindByModule(moduleID uint) ([]model.Content, error) {
	var contents []model.Content
	err := r.DB.Where("module_id = ?", moduleID).
		Order("item_order ASC, id ASC").
		Find(&contents).Error
	return contents, err
}

// FindOwnedByID resolves a content envelope transitively through module and
// course to the owning user.
func (r *ContentRepository) FindOwnedByID(id, ownerID uint) (*model.Content, error) {
	var content model.Content
	err := r.DB.Joins("JOIN modules ON modules.id = contents.module_id").
		Joins("JOIN courses ON courses.id = modules.course_id").
		Where("contents.id = ? AND courses.owner_id = ?", id, ownerID).
		First(&content).Error
	return &content, err
}

func (r *ContentRepository) CountByModule(moduleID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Content{}).Where("module_id = ?", moduleID).Count(&count).Error
	return count, err
}

// ResolveItem materializes the polymorphic reference of an envelope. A
// dangling reference surfaces as ErrRecordNotFound and is the caller's
// decision to tolerate.
func (r *ContentRepository) ResolveItem(content *model.Content) (model.Item, error) {
	desc, ok := model.ResolveItemType(string(content.ItemType))
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	item := desc.New()
	if err := r.DB.First(item, content.ItemID).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// CreateWithItem persists a new item and appends its envelope to the module
// in one transaction. The envelope order is the current count of the
// module's contents, which keeps the sequence dense with no gaps.
func (r *ContentRepository) CreateWithItem(item model.Item, itemType model.ItemType, moduleID uint) (*model.Content, error) {
	var content model.Content
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Content{}).Where("module_id = ?", moduleID).Count(&count).Error; err != nil {
			return err
		}

		content = model.Content{
			ModuleID: moduleID,
			Order:    int(count),
			ItemType: itemType,
			ItemID:   item.ItemID(),
		}
		return tx.Create(&content).Error
	})
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *ContentRepository) SaveItem(item model.Item) error {
	return r.DB.Save(item).Error
}

// DeleteWithItem removes the envelope and its one underlying item together,
// so item rows never outlive their envelope. The remaining envelopes shift
// down to keep the module's order sequence dense.
func (r *ContentRepository) DeleteWithItem(content *model.Content) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteItem(tx, content.ItemType, content.ItemID); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(content).Error; err != nil {
			return err
		}
		return compactOrders(tx, &model.Content{}, "module_id", content.ModuleID, content.Order)
	})
}

func deleteItem(tx *gorm.DB, itemType model.ItemType, itemID uint) error {
	desc, ok := model.ResolveItemType(string(itemType))
	if !ok {
		// Unknown tag on a stored row: nothing to delete, the envelope
		// removal alone is the best we can do.
		return nil
	}
	return tx.Unscoped().Delete(desc.New(), itemID).Error
}

// deleteModuleContents removes every envelope of a module together with the
// items they reference. Shared by the module and course cascade paths.
func deleteModuleContents(tx *gorm.DB, moduleID uint) error {
	var contents []model.Content
	if err := tx.Where("module_id = ?", moduleID).Find(&contents).Error; err != nil {
		return err
	}
	for _, c := range contents {
		if err := deleteItem(tx, c.ItemType, c.ItemID); err != nil {
			return err
		}
	}
	return tx.Unscoped().Where("module_id = ?", moduleID).Delete(&model.Content{}).Error
}
