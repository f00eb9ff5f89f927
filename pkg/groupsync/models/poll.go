package models

import (
	"time"

	"gorm.io/gorm"
)

// Poll is attached to exactly one event. Its options are fixed for the
// poll's lifetime; tallies are derived from votes on every read, never
// stored as counters.
type Poll struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	GroupID   uint           `gorm:"not null;index" json:"group_id"`
	CreatorID uint           `gorm:"not null" json:"creator_id"`
	EventID   uint           `gorm:"not null;uniqueIndex" json:"event_id"`
	Question  string         `gorm:"not null" json:"question"`

	// Relationships
	Options []PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
	Votes   []PollVote   `gorm:"foreignKey:PollID" json:"-"`
}

// PollOption is one choice in a poll. OptionID is the caller-supplied
// positive integer identifier, unique within the poll but not globally.
type PollOption struct {
	ID        uint           `gorm:"primarykey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	PollID    uint           `gorm:"not null;uniqueIndex:idx_poll_option" json:"-"`
	OptionID  int            `gorm:"not null;uniqueIndex:idx_poll_option" json:"id"`
	Text      string         `gorm:"not null" json:"text"`
}

// PollVote records a user's current choice in a poll. Votes are replaced
// by hard delete-then-insert, so the row carries no soft-delete column:
// the (poll, user) unique index must only see live votes.
type PollVote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_voter" json:"poll_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_voter" json:"user_id"`
	OptionID  int       `gorm:"not null" json:"option_id"`
}
