package repository

import (
	"edutrack_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *ModuleRepository) FindByFormationWithLessons(formationID uint) ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Where("formation_id = ?", formationID).
		Order("`order` ASC").
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.`order` ASC")
		}).
		Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Update(module *model.Module) error {
	return r.DB.Save(module).Error
}

func (r *ModuleRepository) NextOrder(formationID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Module{}).
		Where("formation_id = ?", formationID).
		Select("COALESCE(MAX(`order`), -1)").
		Scan(&max).Error
	return max + 1, err
}

// Reorder rewrites the positions of all modules of a formation in one
// transaction, so a drag that moves several rows is atomic.
func (r *ModuleRepository) Reorder(formationID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Module{}).
				Where("id = ? AND formation_id = ?", id, formationID).
				Update("order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a module with its lessons and compacts the order of the
// survivors, all in one transaction.
func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var module model.Module
		if err := tx.First(&module, id).Error; err != nil {
			return err
		}

		if err := tx.Where("module_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&module).Error; err != nil {
			return err
		}

		return tx.Model(&model.Module{}).
			Where("formation_id = ? AND `order` > ?", module.FormationID, module.Order).
			UpdateColumn("order", gorm.Expr("`order` - 1")).Error
	})
}
