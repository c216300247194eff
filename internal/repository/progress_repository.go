package repository

import (
	"edutrack_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Create inserts a completion record. The insert is idempotent: a record that
// already exists for (user, lessonKey) is left untouched.
func (r *ProgressRepository) Create(record *model.ProgressRecord) error {
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

func (r *ProgressRepository) CompletedLessonKeys(userID, formationID uint) (map[string]bool, error) {
	var keys []string
	err := r.DB.Model(&model.ProgressRecord{}).
		Where("user_id = ? AND formation_id = ?", userID, formationID).
		Pluck("lesson_key", &keys).Error
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set, nil
}
