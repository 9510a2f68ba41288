package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	invitations models.InvitationModelInterface
}

func NewInvitationHandler(invitations models.InvitationModelInterface) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// CreateInvitationHandler godoc
// @Summary Invite someone to a trip
// @Description Any member may invite an email address. The invitee is emailed a link; delivery failures do not fail the request.
// @Tags invitations
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param request body types.InvitationCreate true "Invitee and message"
// @Success 201 {object} types.InvitationCreated
// @Failure 400 {object} types.ErrorResponse "Invalid input"
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Failure 409 {object} types.ErrorResponse "Invitee is already a member"
// @Router /trips/{id}/invitations [post]
// @Security BearerAuth
func (h *InvitationHandler) CreateInvitationHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}
	var req types.InvitationCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	created, err := h.invitations.CreateInvitation(c.Request.Context(), tripID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListInvitationsHandler godoc
// @Summary List a trip's invitations
// @Tags invitations
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} types.TripInvitations
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/invitations [get]
// @Security BearerAuth
func (h *InvitationHandler) ListInvitationsHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}

	invitations, err := h.invitations.ListInvitations(c.Request.Context(), tripID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, invitations)
}

// GetInvitationHandler godoc
// @Summary Show an invitation
// @Description Returns a pending invitation with its trip. Accepted invitations answer 409 with the trip id, refused or expired ones 410.
// @Tags invitations
// @Produce json
// @Param invitationId path int true "Invitation ID"
// @Success 200 {object} types.InvitationDetails
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse "Already accepted"
// @Failure 410 {object} types.ErrorResponse "Refused or expired"
// @Router /invitations/{invitationId} [get]
// @Security BearerAuth
func (h *InvitationHandler) GetInvitationHandler(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	invitationID, ok := parseIDParam(c, "invitationId")
	if !ok {
		return
	}

	details, err := h.invitations.GetInvitation(c.Request.Context(), invitationID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// RespondToInvitationHandler godoc
// @Summary Accept or refuse an invitation
// @Tags invitations
// @Accept json
// @Produce json
// @Param invitationId path int true "Invitation ID"
// @Param request body types.InvitationRespond true "accepted or refused"
// @Success 200 {object} types.Invitation
// @Failure 400 {object} types.ErrorResponse "Invalid status"
// @Failure 403 {object} types.ErrorResponse "Invitation belongs to someone else"
// @Failure 409 {object} types.ErrorResponse "Already accepted"
// @Failure 410 {object} types.ErrorResponse "Refused or expired"
// @Router /invitations/{invitationId} [patch]
// @Security BearerAuth
func (h *InvitationHandler) RespondToInvitationHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	invitationID, ok := parseIDParam(c, "invitationId")
	if !ok {
		return
	}
	var req types.InvitationRespond
	if !bindJSONOrError(c, &req) {
		return
	}

	inv, err := h.invitations.RespondToInvitation(c.Request.Context(), invitationID, userID, req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
