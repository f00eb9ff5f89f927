package routines

import (
	"context"

	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
	"github.com/groupsync/groupsync/pkg/groupsync/schedule"
)

// checkGroupRoutineCollision rejects a proposed routine that overlaps any
// routine one of the group's members created in another group. The first
// collision found is reported.
func (h *Handler) checkGroupRoutineCollision(memberIDs []uint, groupID uint, window schedule.Window) *apperr.Error {
	if len(memberIDs) == 0 {
		return nil
	}

	var others []models.Routine
	err := h.db.
		Where("creator_id IN ? AND group_id <> ?", memberIDs, groupID).
		Find(&others).Error
	if err != nil {
		return apperr.Internal("Failed to fetch member routines")
	}

	for _, other := range others {
		if other.Window().Overlaps(window) {
			return apperr.Conflict(
				"Conflict in routine schedules",
				"Conflicting member routine on "+other.Window().String(),
			)
		}
	}
	return nil
}

// checkMemberAvailability accepts the routine only if at least one free
// window declared by a member fully contains it on the matching day. An
// upstream failure surfaces as a gateway error, not a conflict.
func (h *Handler) checkMemberAvailability(ctx context.Context, memberIDs []uint, window schedule.Window, authHeader string) error {
	freeWindows, err := h.availability.FreeSchedules(ctx, memberIDs, authHeader)
	if err != nil {
		return err
	}

	for _, free := range freeWindows {
		if free.Contains(window) {
			return nil
		}
	}

	return apperr.Conflict(
		"Conflict in routine schedules",
		"There are members with conflicting routines",
	)
}
