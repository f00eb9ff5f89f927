package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a one-off dated commitment within a group, optionally carrying
// a poll created atomically with it.
type Event struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	GroupID     uint           `gorm:"not null;index" json:"group_id"`
	CreatorID   uint           `gorm:"not null" json:"creator_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Date        time.Time      `gorm:"not null;index" json:"date"`
	StartHour   int            `gorm:"not null" json:"start_hour"`
	EndHour     int            `gorm:"not null" json:"end_hour"`

	// Relationships
	Poll *Poll `gorm:"foreignKey:EventID" json:"poll,omitempty"`
}
