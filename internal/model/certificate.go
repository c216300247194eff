package model

import "time"

// Certificate is a terminal, immutable record of a completed formation. The
// unique (user, formation) index enforces at most one certificate per pair.
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID         uint      `gorm:"index:idx_cert_user_formation,unique;not null" json:"userId"`
	FormationID    uint      `gorm:"index:idx_cert_user_formation,unique;not null" json:"formationId"`
	FormationTitle string    `gorm:"size:255;not null" json:"formationTitle"`
	LearnerName    string    `gorm:"size:100;not null" json:"learnerName"`
	TrainerName    string    `gorm:"size:100;not null" json:"trainerName"`
	CertificateURL string    `gorm:"size:255" json:"certificateUrl"`
	IssuedAt       time.Time `gorm:"not null" json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
