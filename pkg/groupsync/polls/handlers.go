package polls

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/auth"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
	"gorm.io/gorm"
)

// Handler handles poll-related requests
type Handler struct {
	db *gorm.DB

	// requireMembership gates voting on membership of the poll's group.
	// The default (false) keeps polls open to any authenticated user.
	requireMembership bool
}

// NewHandler creates a new polls handler
func NewHandler(db *gorm.DB, requireMembership bool) *Handler {
	return &Handler{db: db, requireMembership: requireMembership}
}

// VoteRequest represents a vote for a poll option
type VoteRequest struct {
	OptionID int `json:"option_id" binding:"required,min=1"`
}

// Vote casts or replaces the current user's vote in a poll
// @Summary Vote in a poll
// @Description Cast a vote; a user's previous vote in the same poll is replaced
// @Tags polls
// @Accept json
// @Produce json
// @Param id path int true "Poll ID"
// @Param request body VoteRequest true "Vote"
// @Success 200 {object} PollResponse
// @Failure 404 {object} map[string]string "Poll or option not found"
// @Security BearerAuth
// @Router /polls/{id}/votes [put]
func (h *Handler) Vote(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	pollID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid poll ID"))
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", err.Error()))
		return
	}

	var poll models.Poll
	if err := h.db.Preload("Options", optionOrder).First(&poll, pollID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Poll with id %d not found", pollID))
		return
	}

	if h.requireMembership {
		var membership models.GroupMembership
		if err := h.db.Where("user_id = ? AND group_id = ?", userID, poll.GroupID).First(&membership).Error; err != nil {
			apperr.Respond(c, apperr.Authentication("User with id %d is not a member of group %d", userID, poll.GroupID))
			return
		}
	}

	optionExists := false
	for _, opt := range poll.Options {
		if opt.OptionID == req.OptionID {
			optionExists = true
			break
		}
	}
	if !optionExists {
		apperr.Respond(c, apperr.NotFound("Option %d does not exist in poll %d", req.OptionID, poll.ID))
		return
	}

	// Replace semantics: at most one live vote per (poll, user). The old
	// vote is removed and the new one inserted in the same transaction.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ? AND user_id = ?", poll.ID, userID).Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		vote := models.PollVote{
			PollID:   poll.ID,
			UserID:   userID,
			OptionID: req.OptionID,
		}
		return tx.Create(&vote).Error
	})
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to save vote"))
		return
	}

	resp, err := Response(h.db, &poll)
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to tally poll"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a poll with its live tally
// @Summary Get a poll
// @Description Get a poll by id, including its options and live vote counts
// @Tags polls
// @Produce json
// @Param id path int true "Poll ID"
// @Success 200 {object} PollResponse
// @Failure 404 {object} map[string]string "Poll not found"
// @Security BearerAuth
// @Router /polls/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	pollID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid poll ID"))
		return
	}

	var poll models.Poll
	if err := h.db.Preload("Options", optionOrder).First(&poll, pollID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Poll with id %d not found", pollID))
		return
	}

	resp, err := Response(h.db, &poll)
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to tally poll"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers poll routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/votes", h.Vote)
}
