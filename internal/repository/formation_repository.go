package repository

import (
	"edutrack_backend/internal/model"
	"edutrack_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FormationRepository struct {
	DB *gorm.DB
}

func NewFormationRepository(db *gorm.DB) *FormationRepository {
	return &FormationRepository{DB: db}
}

func (r *FormationRepository) Create(formation *model.Formation) error {
	return r.DB.Create(formation).Error
}

func (r *FormationRepository) FindByID(id uint) (*model.Formation, error) {
	var formation model.Formation
	err := r.DB.First(&formation, id).Error
	if err != nil {
		return nil, err
	}
	return &formation, nil
}

func (r *FormationRepository) FindByIDWithModules(id uint) (*model.Formation, error) {
	var formation model.Formation
	err := r.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB {
		return db.Order("modules.`order` ASC")
	}).Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order` ASC")
	}).First(&formation, id).Error
	if err != nil {
		return nil, err
	}
	return &formation, nil
}

func (r *FormationRepository) FindByTrainer(trainerID uint) ([]model.Formation, error) {
	var formations []model.Formation
	err := r.DB.Where("trainer_id = ?", trainerID).Order("created_at DESC").Find(&formations).Error
	return formations, err
}

func (r *FormationRepository) FindActive(page, limit int) ([]model.Formation, int64, error) {
	var formations []model.Formation
	var total int64

	q := r.DB.Model(&model.Formation{}).Where("status = ?", model.FormationActive)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&formations).Error
	return formations, total, err
}

func (r *FormationRepository) Update(formation *model.Formation) error {
	return r.DB.Save(formation).Error
}

func (r *FormationRepository) UpdateStatus(id uint, status model.FormationStatus) error {
	return r.DB.Model(&model.Formation{}).Where("id = ?", id).Update("status", status).Error
}

// Enroll appends a participant while holding the formation row, so the
// capacity check and the insert see a consistent count.
func (r *FormationRepository) Enroll(formationID, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var formation model.Formation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&formation, formationID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Enrollment{}).
			Where("formation_id = ?", formationID).
			Count(&count).Error; err != nil {
			return err
		}
		if formation.MaxParticipants > 0 && count >= int64(formation.MaxParticipants) {
			return util.ErrFormationFull
		}

		return tx.Create(&model.Enrollment{FormationID: formationID, UserID: userID}).Error
	})
}

func (r *FormationRepository) IsEnrolled(formationID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("formation_id = ? AND user_id = ?", formationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *FormationRepository) ParticipantIDs(formationID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Enrollment{}).
		Where("formation_id = ?", formationID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *FormationRepository) FindEnrolled(userID uint) ([]model.Formation, error) {
	var formations []model.Formation
	err := r.DB.
		Joins("JOIN enrollments ON enrollments.formation_id = formations.id").
		Where("enrollments.user_id = ? AND enrollments.deleted_at IS NULL", userID).
		Order("enrollments.created_at ASC").
		Find(&formations).Error
	return formations, err
}
