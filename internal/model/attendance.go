package model

import "time"

// AttendanceSession is a time-boxed numeric code tied to a formation. Issuing
// a new session deactivates previous active ones for the same formation, so
// "the current session" is deterministic.
// swagger:model AttendanceSession
type AttendanceSession struct {
	BaseModel
	FormationID uint      `gorm:"index;not null" json:"formationId"`
	Code        string    `gorm:"size:4;index;not null" json:"code"` // 4-digit numeric string
	ExpiresAt   time.Time `gorm:"not null" json:"expiresAt"`
	Active      bool      `gorm:"default:true" json:"active"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// AttendanceMark records one successful code validation. The unique
// (user, session) index is the backstop against double marking.
// swagger:model AttendanceMark
type AttendanceMark struct {
	BaseModel
	UserID      uint      `gorm:"index:idx_mark_user_session,unique;not null" json:"userId"`
	FormationID uint      `gorm:"index;not null" json:"formationId"`
	SessionID   uint      `gorm:"index:idx_mark_user_session,unique;not null" json:"sessionId"`
	MarkedAt    time.Time `gorm:"not null" json:"markedAt"`
}

func (AttendanceMark) TableName() string {
	return "attendance"
}
