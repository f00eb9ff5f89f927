package models

import (
	"time"

	"github.com/groupsync/groupsync/pkg/groupsync/schedule"
	"gorm.io/gorm"
)

// Routine is a recurring weekly commitment owned by a group member: a
// single weekday plus an hour range. Routines are immutable once created.
type Routine struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	GroupID     uint           `gorm:"not null;index" json:"group_id"`
	CreatorID   uint           `gorm:"not null" json:"creator_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Day         schedule.Day   `gorm:"type:varchar(10);not null" json:"day"`
	StartHour   int            `gorm:"not null" json:"start_hour"`
	EndHour     int            `gorm:"not null" json:"end_hour"`
}

// Window returns the routine's weekly time window for collision checks.
func (r Routine) Window() schedule.Window {
	return schedule.Window{Day: r.Day, StartHour: r.StartHour, EndHour: r.EndHour}
}
