package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is a set of users coordinating shared time. The owner is added as
// the first member when the group is created.
type Group struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	OwnerID     uint           `gorm:"not null" json:"owner_id"`

	// Relationships
	Members  []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Routines []Routine         `gorm:"foreignKey:GroupID" json:"routines,omitempty"`
	Events   []Event           `gorm:"foreignKey:GroupID" json:"events,omitempty"`
}
