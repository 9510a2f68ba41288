package models

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/models/validation"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// InvitationModelInterface is the membership business logic used by the handlers.
type InvitationModelInterface interface {
	CreateInvitation(ctx context.Context, tripID, userID int64, req *types.InvitationCreate) (*types.InvitationCreated, error)
	ListInvitations(ctx context.Context, tripID, userID int64) (*types.TripInvitations, error)
	GetInvitation(ctx context.Context, invitationID int64) (*types.InvitationDetails, error)
	RespondToInvitation(ctx context.Context, invitationID, userID int64, status types.InvitationStatus) (*types.Invitation, error)
	RemoveMember(ctx context.Context, tripID, requesterID, memberID int64) (bool, error)
}

var _ InvitationModelInterface = (*InvitationModel)(nil)

type InvitationModel struct {
	trips       store.TripStore
	invitations store.InvitationStore
	users       store.UserStore
	mailer      types.EmailService
	frontendURL string
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewInvitationModel(
	trips store.TripStore,
	invitations store.InvitationStore,
	users store.UserStore,
	mailer types.EmailService,
	frontendURL string,
	m *metrics.Metrics,
) *InvitationModel {
	return &InvitationModel{
		trips:       trips,
		invitations: invitations,
		users:       users,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		metrics:     m,
		now:         time.Now,
	}
}

// InvitationLink is the path the invitee opens to answer.
func InvitationLink(tripID, invitationID int64) string {
	return fmt.Sprintf("/trip/%d/invitation/%d", tripID, invitationID)
}

// CreateInvitation invites an email address to the trip. If the address
// belongs to an account the invitation is bound to it right away. The
// email is sent best-effort.
func (im *InvitationModel) CreateInvitation(ctx context.Context, tripID, userID int64, req *types.InvitationCreate) (*types.InvitationCreated, error) {
	log := logger.GetLogger()

	if err := validation.ValidateInvitationCreate(req); err != nil {
		return nil, err
	}

	trip, err := requireMember(ctx, im.trips, tripID, userID)
	if err != nil {
		return nil, err
	}

	inv := &types.Invitation{TripID: tripID, Email: req.Email, Message: req.Message}

	invitee, err := im.users.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		member, err := im.trips.IsMember(ctx, tripID, invitee.ID)
		if err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		if member {
			return nil, errors.ConflictWithTrip("already_member", "This person is already a member of the trip", tripID)
		}
		inv.UserID = &invitee.ID
	case !stderrors.Is(err, store.ErrNotFound):
		return nil, errors.NewDatabaseError(err)
	}

	id, err := im.invitations.CreateInvitation(ctx, inv)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	im.metrics.Invitation("created")

	link := InvitationLink(tripID, id)
	log.Infow("Invitation created", "tripId", tripID, "invitationId", id, "userId", userID, "email", logger.MaskEmail(req.Email))

	im.sendInvitationEmail(ctx, trip, inv, link)

	return &types.InvitationCreated{ID: id, Link: link}, nil
}

func (im *InvitationModel) sendInvitationEmail(ctx context.Context, trip *types.Trip, inv *types.Invitation, link string) {
	if im.mailer == nil {
		return
	}
	err := im.mailer.SendInvitationEmail(ctx, types.EmailData{
		To:      inv.Email,
		Subject: fmt.Sprintf("You're invited to %s", trip.Title),
		TemplateData: map[string]interface{}{
			"TripTitle":     trip.Title,
			"City":          trip.City,
			"Country":       trip.Country,
			"StartAt":       trip.StartAt.Format("2 Jan 2006"),
			"EndAt":         trip.EndAt.Format("2 Jan 2006"),
			"Message":       inv.Message,
			"InvitationURL": im.frontendURL + link,
		},
	})
	if err != nil {
		logger.GetLogger().Warnw("Failed to send invitation email",
			"tripId", trip.ID, "invitationId", inv.ID, "email", logger.MaskEmail(inv.Email), "error", err)
	}
}

// ListInvitations returns the trip header with every invitation, newest first.
func (im *InvitationModel) ListInvitations(ctx context.Context, tripID, userID int64) (*types.TripInvitations, error) {
	trip, err := requireMember(ctx, im.trips, tripID, userID)
	if err != nil {
		return nil, err
	}
	invitations, err := im.invitations.ListTripInvitations(ctx, tripID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return &types.TripInvitations{Trip: trip, Invitations: invitations}, nil
}

// GetInvitation is what an invitee sees before answering. Settled and
// expired invitations are reported as errors.
func (im *InvitationModel) GetInvitation(ctx context.Context, invitationID int64) (*types.InvitationDetails, error) {
	inv, err := im.invitations.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, storeError(err, "Invitation", invitationID)
	}

	if inv.Status != types.InvitationStatusPending {
		return nil, validation.ValidateInvitationOpen(inv, nil, im.now())
	}

	trip, err := im.trips.GetTrip(ctx, inv.TripID)
	if err != nil {
		return nil, storeError(err, "Trip", inv.TripID)
	}
	if err := validation.ValidateInvitationOpen(inv, trip, im.now()); err != nil {
		return nil, err
	}

	return &types.InvitationDetails{Invitation: *inv, Trip: trip}, nil
}

// RespondToInvitation accepts or refuses a pending invitation on behalf of
// the invited user.
func (im *InvitationModel) RespondToInvitation(ctx context.Context, invitationID, userID int64, status types.InvitationStatus) (*types.Invitation, error) {
	log := logger.GetLogger()

	if !status.IsResponse() {
		return nil, errors.ValidationFailed("Invalid status", "status must be accepted or refused")
	}

	inv, err := im.invitations.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, storeError(err, "Invitation", invitationID)
	}
	if inv.Status != types.InvitationStatusPending {
		return nil, validation.ValidateInvitationOpen(inv, nil, im.now())
	}
	if inv.UserID == nil {
		if err := im.claimByEmail(ctx, inv, userID); err != nil {
			return nil, err
		}
	}
	if *inv.UserID != userID {
		return nil, errors.Forbidden("This invitation is addressed to someone else",
			fmt.Sprintf("user %d cannot answer invitation %d", userID, invitationID))
	}

	trip, err := im.trips.GetTrip(ctx, inv.TripID)
	if err != nil {
		return nil, storeError(err, "Trip", inv.TripID)
	}
	if err := validation.ValidateInvitationOpen(inv, trip, im.now()); err != nil {
		return nil, err
	}

	updated, err := im.invitations.RespondToInvitation(ctx, invitationID, status)
	if err != nil {
		if stderrors.Is(err, store.ErrConflict) {
			return nil, errors.ConflictWithTrip("already_member", "You are already a member of this trip", inv.TripID)
		}
		return nil, errors.NewDatabaseError(err)
	}
	if !updated {
		// Answered concurrently; report the state that won.
		current, err := im.invitations.GetInvitation(ctx, invitationID)
		if err != nil {
			return nil, storeError(err, "Invitation", invitationID)
		}
		if err := validation.ValidateInvitationOpen(current, nil, im.now()); err != nil {
			return nil, err
		}
		return nil, errors.NewConflictError("Invitation changed while answering", "please retry")
	}

	im.metrics.Invitation(string(status))
	log.Infow("Invitation answered", "invitationId", invitationID, "tripId", inv.TripID, "userId", userID, "status", status)

	inv.Status = status
	inv.UpdatedAt = im.now()
	return inv, nil
}

// claimByEmail binds an invitation that was sent before its invitee had an
// account, provided the caller's email is the invited address.
func (im *InvitationModel) claimByEmail(ctx context.Context, inv *types.Invitation, userID int64) error {
	user, err := im.users.GetUserByID(ctx, userID)
	if err != nil {
		return storeError(err, "User", userID)
	}
	if !strings.EqualFold(user.Email, inv.Email) {
		return errors.Forbidden("This invitation is addressed to someone else",
			fmt.Sprintf("user %d cannot answer invitation %d", userID, inv.ID))
	}
	if _, err := im.invitations.ClaimInvitations(ctx, user.Email, userID); err != nil {
		return errors.NewDatabaseError(err)
	}
	inv.UserID = &userID
	logger.GetLogger().Infow("Invitation claimed on answer", "invitationId", inv.ID, "userId", userID)
	return nil
}

// RemoveMember is owner only. It deletes the member's votes on the trip and
// their accepted invitation together, and reports false when userID was not
// an invited member.
func (im *InvitationModel) RemoveMember(ctx context.Context, tripID, requesterID, memberID int64) (bool, error) {
	trip, err := requireOwner(ctx, im.trips, tripID, requesterID)
	if err != nil {
		return false, err
	}
	if memberID == trip.OwnerID {
		return false, errors.ValidationFailed("Cannot remove the owner", "the trip owner is not an invited member")
	}

	removed, err := im.invitations.RemoveMember(ctx, tripID, memberID)
	if err != nil {
		return false, errors.NewDatabaseError(err)
	}
	logger.GetLogger().Infow("Member removal", "tripId", tripID, "userId", memberID, "removed", removed)
	return removed, nil
}
