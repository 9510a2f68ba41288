package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
)

// MemberHandler handles HTTP requests related to trip members.
type MemberHandler struct {
	trips       models.TripModelInterface
	invitations models.InvitationModelInterface
}

func NewMemberHandler(trips models.TripModelInterface, invitations models.InvitationModelInterface) *MemberHandler {
	return &MemberHandler{trips: trips, invitations: invitations}
}

// ListMembersHandler godoc
// @Summary List trip members
// @Description The owner followed by every user with an accepted invitation.
// @Tags trips-members
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {array} types.Member
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/members [get]
// @Security BearerAuth
func (h *MemberHandler) ListMembersHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}

	members, err := h.trips.ListMembers(c.Request.Context(), tripID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// RemoveMemberHandler godoc
// @Summary Remove a member from a trip
// @Description Owner only. Deletes the member's votes on the trip and their accepted invitation. Removing someone who is not a member reports removed=false.
// @Tags trips-members
// @Produce json
// @Param id path int true "Trip ID"
// @Param userId path int true "Member user ID"
// @Success 200 {object} types.RemovedResponse
// @Failure 400 {object} types.ErrorResponse "Cannot remove the owner"
// @Failure 403 {object} types.ErrorResponse "Not the owner"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/members/{userId} [delete]
// @Security BearerAuth
func (h *MemberHandler) RemoveMemberHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	removed, err := h.invitations.RemoveMember(c.Request.Context(), tripID, userID, memberID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.RemovedResponse{Removed: removed})
}
