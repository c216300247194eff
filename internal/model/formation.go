package model

type FormationStatus string

const (
	FormationDraft    FormationStatus = "draft"
	FormationActive   FormationStatus = "active"
	FormationArchived FormationStatus = "archived"
)

// Formation is a training owned by a trainer. Participants are joined through
// the enrollment table; the formation itself is never hard-deleted in normal
// flow, its Status drives the lifecycle.
// swagger:model Formation
type Formation struct {
	BaseModel
	Title           string          `gorm:"size:255;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	TrainerID       uint            `gorm:"index;not null" json:"trainerId"`
	MaxParticipants int             `gorm:"default:0" json:"maxParticipants"` // 0 means unlimited
	Status          FormationStatus `gorm:"type:enum('draft','active','archived');default:'draft'" json:"status"`
	Participants    []Enrollment    `gorm:"foreignKey:FormationID" json:"participants,omitempty"`
	Modules         []Module        `gorm:"foreignKey:FormationID" json:"modules,omitempty"`
}

func (Formation) TableName() string {
	return "formations"
}

// Enrollment links a learner to a formation.
type Enrollment struct {
	BaseModel
	FormationID uint `gorm:"index:idx_enroll_formation_user,unique;not null" json:"formationId"`
	UserID      uint `gorm:"index:idx_enroll_formation_user,unique;not null" json:"userId"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
