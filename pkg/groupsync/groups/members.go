package groups

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
)

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	UserID   uint      `json:"user_id"`
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// ListMembers returns all members of a group
// @Summary List group members
// @Description Get all members of a group with their join timestamps
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} MemberResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}

	members, appErr := h.memberList(uint(groupID))
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusOK, members)
}

// AddMember adds a user to a group
// @Summary Add a group member
// @Description Add a user to a group; joining the same group twice is a conflict
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userID path int true "User ID"
// @Success 201 {array} MemberResponse
// @Failure 404 {object} map[string]string "Group or user not found"
// @Failure 409 {object} map[string]string "Already a member"
// @Security BearerAuth
// @Router /groups/{id}/members/{userID} [post]
func (h *Handler) AddMember(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}
	targetID, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid user ID"))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}
	if err := h.db.First(&models.User{}, targetID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("User with id %d not found", targetID))
		return
	}

	// The unique index on (user_id, group_id) backs this check against
	// concurrent joins; the First probe gives the friendly error.
	var existing models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", targetID, groupID).First(&existing).Error; err == nil {
		apperr.Respond(c, apperr.Conflict(
			"Member already exists",
			"User "+strconv.FormatUint(targetID, 10)+" is already a member of group "+strconv.FormatUint(groupID, 10),
		))
		return
	}

	membership := models.GroupMembership{
		UserID:  uint(targetID),
		GroupID: uint(groupID),
	}
	if err := h.db.Create(&membership).Error; err != nil {
		apperr.Respond(c, apperr.Conflict(
			"Member already exists",
			"User "+strconv.FormatUint(targetID, 10)+" is already a member of group "+strconv.FormatUint(groupID, 10),
		))
		return
	}

	members, appErr := h.memberList(uint(groupID))
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, members)
}

// memberList loads the member set of a group, newest joins last.
func (h *Handler) memberList(groupID uint) ([]MemberResponse, *apperr.Error) {
	var memberships []models.GroupMembership
	if err := h.db.Preload("User").Where("group_id = ?", groupID).Order("created_at").Find(&memberships).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch members")
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = MemberResponse{
			UserID:   m.UserID,
			Name:     m.User.Name,
			Email:    m.User.Email,
			JoinedAt: m.CreatedAt,
		}
	}
	return members, nil
}

// RegisterMemberRoutes registers member management routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.POST("/:id/members/:userID", h.AddMember)
}
