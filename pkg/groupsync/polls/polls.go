package polls

import (
	"time"

	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
	"gorm.io/gorm"
)

// PollRequest is the poll attached to an event at creation time. Option
// ids are caller-supplied and fixed for the poll's lifetime.
type PollRequest struct {
	Question string          `json:"question" binding:"required,min=1,max=512"`
	Options  []OptionRequest `json:"options" binding:"required,min=2,max=10,dive"`
}

// OptionRequest is one poll choice.
type OptionRequest struct {
	ID   int    `json:"id" binding:"required,min=1"`
	Text string `json:"text" binding:"required,min=1,max=256"`
}

// Validate enforces the constraints binding cannot express: option ids
// must be unique within the poll.
func (r *PollRequest) Validate() *apperr.Error {
	seen := make(map[int]bool, len(r.Options))
	for _, opt := range r.Options {
		if seen[opt.ID] {
			return apperr.Validation("Invalid poll data", "Duplicate option in poll data")
		}
		seen[opt.ID] = true
	}
	return nil
}

// OptionResponse represents a poll option in API responses
type OptionResponse struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PollResponse represents a poll with its live tally. Votes maps option id
// to the count of distinct users currently voting for it; options with no
// votes are absent.
type PollResponse struct {
	ID        uint             `json:"id"`
	EventID   uint             `json:"event_id"`
	Question  string           `json:"question"`
	Options   []OptionResponse `json:"options"`
	Votes     map[int]int64    `json:"votes"`
	CreatedAt time.Time        `json:"created_at"`
}

// Create persists a poll and its options for an event. It runs inside the
// caller's transaction so the poll appears atomically with its event.
func Create(tx *gorm.DB, groupID, creatorID, eventID uint, req *PollRequest) (*models.Poll, error) {
	poll := models.Poll{
		GroupID:   groupID,
		CreatorID: creatorID,
		EventID:   eventID,
		Question:  req.Question,
	}
	if err := tx.Create(&poll).Error; err != nil {
		return nil, err
	}

	for _, opt := range req.Options {
		option := models.PollOption{
			PollID:   poll.ID,
			OptionID: opt.ID,
			Text:     opt.Text,
		}
		if err := tx.Create(&option).Error; err != nil {
			return nil, err
		}
		poll.Options = append(poll.Options, option)
	}

	return &poll, nil
}

// Tally aggregates the live vote counts for a poll. It is computed fresh
// on every read; correctness rests on the vote table's replace semantics,
// not on counter arithmetic.
func Tally(db *gorm.DB, pollID uint) (map[int]int64, error) {
	type row struct {
		OptionID int
		Count    int64
	}

	var rows []row
	err := db.Model(&models.PollVote{}).
		Select("option_id, COUNT(*) as count").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	votes := make(map[int]int64, len(rows))
	for _, r := range rows {
		votes[r.OptionID] = r.Count
	}
	return votes, nil
}

// Response assembles the API shape for a poll, including its live tally.
func Response(db *gorm.DB, poll *models.Poll) (*PollResponse, error) {
	votes, err := Tally(db, poll.ID)
	if err != nil {
		return nil, err
	}

	options := make([]OptionResponse, len(poll.Options))
	for i, opt := range poll.Options {
		options[i] = OptionResponse{
			ID:        opt.OptionID,
			Text:      opt.Text,
			CreatedAt: opt.CreatedAt,
		}
	}

	return &PollResponse{
		ID:        poll.ID,
		EventID:   poll.EventID,
		Question:  poll.Question,
		Options:   options,
		Votes:     votes,
		CreatedAt: poll.CreatedAt,
	}, nil
}

// ByEvent loads an event's poll with its live tally, or nil when the
// event has none.
func ByEvent(db *gorm.DB, eventID uint) (*PollResponse, error) {
	var poll models.Poll
	err := db.Preload("Options", optionOrder).Where("event_id = ?", eventID).First(&poll).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return Response(db, &poll)
}

func optionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("poll_options.id")
}
