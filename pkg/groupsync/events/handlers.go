package events

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/auth"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
	"github.com/groupsync/groupsync/pkg/groupsync/polls"
	"gorm.io/gorm"
)

// dateLayout is the wire format for event dates. Dates are calendar days;
// hours live in their own fields, so no timezone handling applies.
const dateLayout = "2006-01-02"

// Handler handles event-related requests
type Handler struct {
	db *gorm.DB

	// now supplies the current time for past-date rejection; injectable
	// so tests can pin the clock.
	now func() time.Time
}

// NewHandler creates a new events handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, now: time.Now}
}

// EventRequest represents the request to create or update an event
type EventRequest struct {
	Name        string             `json:"name" binding:"required,min=3,max=64"`
	Description string             `json:"description" binding:"max=512"`
	Date        string             `json:"date" binding:"required,datetime=2006-01-02"`
	StartHour   int                `json:"start_hour" binding:"gte=0,lte=23"`
	EndHour     int                `json:"end_hour" binding:"gte=0,lte=23"`
	Poll        *polls.PollRequest `json:"poll" binding:"omitempty"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID          uint                `json:"id"`
	GroupID     uint                `json:"group_id"`
	CreatorID   uint                `json:"creator_id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Date        string              `json:"date"`
	StartHour   int                 `json:"start_hour"`
	EndHour     int                 `json:"end_hour"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Poll        *polls.PollResponse `json:"poll,omitempty"`
}

func eventToResponse(event models.Event, poll *polls.PollResponse) EventResponse {
	return EventResponse{
		ID:          event.ID,
		GroupID:     event.GroupID,
		CreatorID:   event.CreatorID,
		Name:        event.Name,
		Description: event.Description,
		Date:        event.Date.Format(dateLayout),
		StartHour:   event.StartHour,
		EndHour:     event.EndHour,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
		Poll:        poll,
	}
}

// Create creates a new event, optionally with an attached poll
// @Summary Create an event
// @Description Create a dated event; rejected when it overlaps another event in the group on the same date or its date is in the past. An attached poll is created atomically with the event.
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body EventRequest true "Event details"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Not a group member"
// @Failure 409 {object} map[string]string "Scheduling conflict"
// @Security BearerAuth
// @Router /groups/{id}/events [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", err.Error()))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}

	if appErr := h.checkMembership(userID, uint(groupID)); appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	if req.Poll != nil {
		if appErr := req.Poll.Validate(); appErr != nil {
			apperr.Respond(c, appErr)
			return
		}
	}

	date, _ := time.Parse(dateLayout, req.Date)
	if date.Before(h.now()) {
		apperr.Respond(c, apperr.Validation("Invalid event date", "Event date cannot be in the past"))
		return
	}

	if appErr := h.checkEventCollision(uint(groupID), 0, date, req.StartHour, req.EndHour); appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	var event models.Event
	var poll *models.Poll
	err = h.db.Transaction(func(tx *gorm.DB) error {
		event = models.Event{
			GroupID:     uint(groupID),
			CreatorID:   userID,
			Name:        req.Name,
			Description: req.Description,
			Date:        date,
			StartHour:   req.StartHour,
			EndHour:     req.EndHour,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if req.Poll != nil {
			created, err := polls.Create(tx, uint(groupID), userID, event.ID, req.Poll)
			if err != nil {
				return err
			}
			poll = created
		}
		return nil
	})
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to save event"))
		return
	}

	var pollResp *polls.PollResponse
	if poll != nil {
		pollResp, err = polls.Response(h.db, poll)
		if err != nil {
			apperr.Respond(c, apperr.Internal("Failed to load event poll"))
			return
		}
	}

	c.JSON(http.StatusCreated, eventToResponse(event, pollResp))
}

// Update updates an existing event
// @Summary Update an event
// @Description Update an event; the event is excluded from its own collision set, and the past-date rule applies only when the date changes
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param eventID path int true "Event ID"
// @Param request body EventRequest true "Updated event details"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string "Event not found"
// @Failure 409 {object} map[string]string "Scheduling conflict"
// @Security BearerAuth
// @Router /groups/{id}/events/{eventID} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}
	eventID, err := strconv.ParseUint(c.Param("eventID"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid event ID"))
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", err.Error()))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}

	var event models.Event
	if err := h.db.Where("group_id = ?", groupID).First(&event, eventID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Event with id %d not found in group %d", eventID, groupID))
		return
	}

	if appErr := h.checkMembership(userID, uint(groupID)); appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	date, _ := time.Parse(dateLayout, req.Date)

	// The past-date rule only applies when the date is changing.
	if !event.Date.Equal(date) && date.Before(h.now()) {
		apperr.Respond(c, apperr.Validation("Invalid event date", "Event date cannot be in the past"))
		return
	}

	if appErr := h.checkEventCollision(uint(groupID), event.ID, date, req.StartHour, req.EndHour); appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Date = date
	event.StartHour = req.StartHour
	event.EndHour = req.EndHour

	if err := h.db.Save(&event).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to update event"))
		return
	}

	c.JSON(http.StatusOK, eventToResponse(event, nil))
}

// List returns all events of a group
// @Summary List events
// @Description Get all events of a group ordered by date and start hour
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} EventResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/events [get]
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

	var events []models.Event
	if err := h.db.Where("group_id = ?", groupID).Order("date, start_hour").Find(&events).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to fetch events"))
		return
	}

	resp := make([]EventResponse, len(events))
	for i, event := range events {
		resp[i] = eventToResponse(event, nil)
	}

	c.JSON(http.StatusOK, resp)
}

// Get returns a specific event, including its poll with the live tally
// @Summary Get an event
// @Description Get an event by id, including its poll and live vote counts
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /groups/{id}/events/{eventID} [get]
func (h *Handler) Get(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}
	eventID, err := strconv.ParseUint(c.Param("eventID"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid event ID"))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}

	var event models.Event
	if err := h.db.Where("group_id = ?", groupID).First(&event, eventID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Event with id %d not found in group %d", eventID, groupID))
		return
	}

	poll, err := polls.ByEvent(h.db, event.ID)
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to load event poll"))
		return
	}

	c.JSON(http.StatusOK, eventToResponse(event, poll))
}

// Delete removes an event from a group
// @Summary Delete an event
// @Description Delete an event by id
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]string "Event deleted"
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /groups/{id}/events/{eventID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid group ID"))
		return
	}
	eventID, err := strconv.ParseUint(c.Param("eventID"), 10, 32)
	if err != nil {
		apperr.Respond(c, apperr.Validation("Validation error", "Invalid event ID"))
		return
	}

	if err := h.db.First(&models.Group{}, groupID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Group with id %d not found", groupID))
		return
	}

	var event models.Event
	if err := h.db.Where("group_id = ?", groupID).First(&event, eventID).Error; err != nil {
		apperr.Respond(c, apperr.NotFound("Event with id %d not found in group %d", eventID, groupID))
		return
	}

	if err := h.db.Delete(&event).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to delete event"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// RegisterRoutes registers event routes on the groups router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/events", h.List)
	rg.POST("/:id/events", h.Create)
	rg.GET("/:id/events/:eventID", h.Get)
	rg.PUT("/:id/events/:eventID", h.Update)
	rg.DELETE("/:id/events/:eventID", h.Delete)
}

func (h *Handler) checkMembership(userID, groupID uint) *apperr.Error {
	var membership models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&membership).Error; err != nil {
		return apperr.Authentication("User with id %d is not a member of group %d", userID, groupID)
	}
	return nil
}

// checkEventCollision rejects a candidate window overlapping any other
// event in the group on the same date. excludeID removes the event being
// edited from its own collision set; zero excludes nothing. There is no
// force bypass for events. All colliding event ids are reported.
func (h *Handler) checkEventCollision(groupID, excludeID uint, date time.Time, startHour, endHour int) *apperr.Error {
	query := h.db.Model(&models.Event{}).
		Where("group_id = ? AND date = ?", groupID, date).
		Where("start_hour < ? AND end_hour > ?", endHour, startHour)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var ids []uint
	if err := query.Order("id").Pluck("id", &ids).Error; err != nil {
		return apperr.Internal("Failed to check event collisions")
	}

	if len(ids) > 0 {
		return apperr.Conflict(
			"Conflict in event schedules",
			fmt.Sprintf("Event collides with existing events: %v", ids),
		)
	}
	return nil
}
