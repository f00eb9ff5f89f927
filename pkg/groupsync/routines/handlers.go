package routines

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/auth"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
	"github.com/groupsync/groupsync/pkg/groupsync/schedule"
	"gorm.io/gorm"
)

// FreeScheduleFetcher supplies externally declared free windows for a set
// of users. Satisfied by availability.Client; stubbed in tests.
type FreeScheduleFetcher interface {
	FreeSchedules(ctx context.Context, userIDs []uint, authHeader string) ([]schedule.Window, error)
}

// Handler handles routine-related requests
type Handler struct {
	db           *gorm.DB
	availability FreeScheduleFetcher
}

// NewHandler creates a new routines handler
func NewHandler(db *gorm.DB, availability FreeScheduleFetcher) *Handler {
	return &Handler{db: db, availability: availability}
}

// CreateRoutineRequest represents the request to create a routine
type CreateRoutineRequest struct {
	Name        string       `json:"name" binding:"required,min=3,max=64"`
	Description string       `json:"description" binding:"max=512"`
	Day         schedule.Day `json:"day" binding:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartHour   int          `json:"start_hour" binding:"gte=0,lte=23"`
	EndHour     int          `json:"end_hour" binding:"gte=0,lte=23"`
}

// Create adds a routine to a group after running the collision checks
// @Summary Create a routine
// @Description Create a weekly routine; rejected when it collides with a member's routine in another group or with no declared free window. force=true skips the collision checks.
// @Tags routines
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param force query bool false "Skip collision checks"
// @Param request body CreateRoutineRequest true "Routine details"
// @Success 201 {array} models.Routine
// @Failure 401 {object} map[string]string "Not a group member"
// @Failure 409 {object} map[string]string "Scheduling conflict"
// @Failure 502 {object} map[string]string "Availability service failure"
// @Security BearerAuth
// @Router /groups/{id}/routines [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}

	var req CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", err.Error()))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}

	memberIDs, appErr := h.memberIDs(uint(groupID))
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	if !contains(memberIDs, userID) {
		apperr.Respond(c, apperr.Authentication("User with id %d is not a member of group %d", userID, groupID))
		return
	}

	window := schedule.Window{Day: req.Day, StartHour: req.StartHour, EndHour: req.EndHour}

	force, _ := strconv.ParseBool(c.Query("force"))
	if !force {
		// Checks run in a fixed order; the first failure wins.
		if appErr := h.checkGroupRoutineCollision(memberIDs, uint(groupID), window); appErr != nil {
			apperr.Respond(c, appErr)
			return
		}
		if err := h.checkMemberAvailability(c.Request.Context(), memberIDs, window, auth.GetAuthHeader(c)); err != nil {
			apperr.Respond(c, err)
			return
		}
	}

	routine := models.Routine{
		GroupID:     uint(groupID),
		CreatorID:   userID,
		Name:        req.Name,
		Description: req.Description,
		Day:         req.Day,
		StartHour:   req.StartHour,
		EndHour:     req.EndHour,
	}
	if err := h.db.Create(&routine).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to save routine"))
		return
	}

	var routines []models.Routine
	if err := h.db.Where("group_id = ?", groupID).Order("id").Find(&routines).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to fetch routines"))
		return
	}

	c.JSON(http.StatusCreated, routines)
}

// List returns all routines of a group
// @Summary List routines
// @Description Get all routines of a group
// @Tags routines
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} models.Routine
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/routines [get]
func (h *Handler) List(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}

	var routines []models.Routine
	if err := h.db.Where("group_id = ?", groupID).Order("id").Find(&routines).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to fetch routines"))
		return
	}

	c.JSON(http.StatusOK, routines)
}

// RegisterRoutes registers routine routes on the groups router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/routines", h.List)
	rg.POST("/:id/routines", h.Create)
}

func (h *Handler) memberIDs(groupID uint) ([]uint, *apperr.Error) {
	var memberships []models.GroupMembership
	if err := h.db.Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		return nil, apperr.Internal("Failed to fetch members")
	}

	ids := make([]uint, len(memberships))
	for i, m := range memberships {
		ids[i] = m.UserID
	}
	return ids, nil
}

func contains(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
