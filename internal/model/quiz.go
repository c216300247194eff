package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringSlice stores an ordered list of strings as a JSON column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("StringSlice: expected []byte")
	}
	return json.Unmarshal(b, s)
}

// IntSlice stores submitted answer indices as a JSON column.
type IntSlice []int

func (s IntSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *IntSlice) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("IntSlice: expected []byte")
	}
	return json.Unmarshal(b, s)
}

// QuizQuestion belongs to a module. CorrectIndex points into Options.
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	ModuleID     uint        `gorm:"index;not null" json:"moduleId"`
	Question     string      `gorm:"type:text;not null" json:"question"`
	Options      StringSlice `gorm:"type:json" json:"options"`
	CorrectIndex int         `gorm:"not null" json:"-"` // never serialized to learners
	Points       int         `gorm:"default:1" json:"points"`
	Order        int         `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizResult is one scored attempt. Rows are append-only; a retake creates a
// new row rather than mutating a prior one.
// swagger:model QuizResult
type QuizResult struct {
	BaseModel
	UserID      uint      `gorm:"index;not null" json:"userId"`
	ModuleID    uint      `gorm:"index;not null" json:"moduleId"`
	FormationID uint      `gorm:"index;not null" json:"formationId"`
	Score       int       `gorm:"not null" json:"score"`
	TotalPoints int       `gorm:"not null" json:"totalPoints"`
	Percentage  int       `gorm:"not null" json:"percentage"`
	Passed      bool      `gorm:"default:false" json:"passed"`
	Attempt     int       `gorm:"default:1" json:"attempt"`
	UserAnswers IntSlice  `gorm:"type:json" json:"userAnswers"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
