package repository

import (
	"edutrack_backend/internal/model"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// CreateSession persists a new session and deactivates prior active sessions
// for the same formation in the same transaction, so at most one session is
// current at a time.
func (r *AttendanceRepository) CreateSession(session *model.AttendanceSession) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.AttendanceSession{}).
			Where("formation_id = ? AND active = ?", session.FormationID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

func (r *AttendanceRepository) FindSessionByCode(formationID uint, code string) (*model.AttendanceSession, error) {
	var session model.AttendanceSession
	err := r.DB.Where("formation_id = ? AND code = ?", formationID, code).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AttendanceRepository) FindActiveSession(formationID uint) (*model.AttendanceSession, error) {
	var session model.AttendanceSession
	err := r.DB.Where("formation_id = ? AND active = ?", formationID, true).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *AttendanceRepository) CreateMark(mark *model.AttendanceMark) error {
	return r.DB.Create(mark).Error
}

func (r *AttendanceRepository) HasMark(userID, sessionID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.AttendanceMark{}).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Count(&count).Error
	return count > 0, err
}

func (r *AttendanceRepository) FindMarksBySession(sessionID uint) ([]model.AttendanceMark, error) {
	var marks []model.AttendanceMark
	err := r.DB.Where("session_id = ?", sessionID).
		Order("marked_at ASC").
		Find(&marks).Error
	return marks, err
}
