package model

import "time"

// ProgressRecord marks completion of one lesson by one user. Append-only:
// presence of a row is the sole completion signal. LessonKey is the lesson's
// numeric id rendered as a string, or a synthetic "quiz-<moduleID>" key when a
// passed quiz counts as a completion.
// swagger:model ProgressRecord
type ProgressRecord struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_progress_user_lesson,unique;not null" json:"userId"`
	FormationID uint      `gorm:"index;not null" json:"formationId"`
	ModuleID    uint      `gorm:"index;not null" json:"moduleId"`
	LessonKey   string    `gorm:"size:64;index:idx_progress_user_lesson,unique;not null" json:"lessonKey"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (ProgressRecord) TableName() string {
	return "user_progress"
}
