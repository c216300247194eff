package repository

import (
	"edutrack_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) NextOrder(moduleID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Lesson{}).
		Where("module_id = ?", moduleID).
		Select("COALESCE(MAX(`order`), -1)").
		Scan(&max).Error
	return max + 1, err
}

func (r *LessonRepository) Reorder(moduleID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if err := tx.Model(&model.Lesson{}).
				Where("id = ? AND module_id = ?", id, moduleID).
				Update("order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lesson model.Lesson
		if err := tx.First(&lesson, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&lesson).Error; err != nil {
			return err
		}
		return tx.Model(&model.Lesson{}).
			Where("module_id = ? AND `order` > ?", lesson.ModuleID, lesson.Order).
			UpdateColumn("order", gorm.Expr("`order` - 1")).Error
	})
}
