package model

import (
	"time"
)

type UserRole string

const (
	Learner UserRole = "learner"
	Trainer UserRole = "trainer"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('learner','trainer','admin');default:'learner'" json:"role"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	PushToken string    `gorm:"size:255" json:"-"` // registered push-delivery address; empty when the device never registered
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
