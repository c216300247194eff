package model

type LessonType string

const (
	LessonText  LessonType = "text"
	LessonVideo LessonType = "video"
	LessonPDF   LessonType = "pdf"
)

// Module is an ordered content unit owned by exactly one formation.
// swagger:model Module
type Module struct {
	BaseModel
	FormationID uint     `gorm:"index;not null" json:"formationId"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Order       int      `gorm:"default:0" json:"order"`
	Lessons     []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// Lesson is the leaf content unit, owned by exactly one module.
// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID uint       `gorm:"index;not null" json:"moduleId"`
	Title    string     `gorm:"size:255;not null" json:"title"`
	Type     LessonType `gorm:"type:enum('text','video','pdf');not null" json:"type"`
	Content  string     `gorm:"type:text" json:"content"` // inline text or the storage URL of the media object
	Duration int        `gorm:"default:0" json:"duration"` // seconds
	Order    int        `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
