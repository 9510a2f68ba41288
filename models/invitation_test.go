package models

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invitationDeps struct {
	trips       *MockTripStore
	invitations *MockInvitationStore
	users       *MockUserStore
	mailer      *MockEmailService
}

func newTestInvitationModel() (*InvitationModel, invitationDeps) {
	d := invitationDeps{
		trips:       new(MockTripStore),
		invitations: new(MockInvitationStore),
		users:       new(MockUserStore),
		mailer:      new(MockEmailService),
	}
	im := NewInvitationModel(d.trips, d.invitations, d.users, d.mailer, "https://app.example/", metrics.New(prometheus.NewRegistry()))
	im.now = fixedClock
	return im, d
}

func TestInvitationModel_CreateInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email creates unbound invitation and sends mail", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.users.On("GetUserByEmail", ctx, "new@example.com").Return(nil, fmt.Errorf("user: %w", store.ErrNotFound))
		d.invitations.On("CreateInvitation", ctx, mock.MatchedBy(func(inv *types.Invitation) bool {
			return inv.UserID == nil && inv.Email == "new@example.com" && inv.Message == "Come along"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*types.Invitation).ID = 33
		}).Return(int64(33), nil)
		d.mailer.On("SendInvitationEmail", ctx, mock.MatchedBy(func(data types.EmailData) bool {
			return data.To == "new@example.com" &&
				data.TemplateData["InvitationURL"] == "https://app.example/trip/1/invitation/33"
		})).Return(nil)

		res, err := im.CreateInvitation(ctx, 1, 10, &types.InvitationCreate{Email: " New@Example.com ", Message: " Come along "})
		require.NoError(t, err)
		assert.Equal(t, int64(33), res.ID)
		assert.Equal(t, "/trip/1/invitation/33", res.Link)
		d.mailer.AssertExpectations(t)
	})

	t.Run("known email is bound to the account", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.users.On("GetUserByEmail", ctx, "bob@example.com").Return(&types.User{ID: 20}, nil)
		d.trips.On("IsMember", ctx, int64(1), int64(20)).Return(false, nil)
		d.invitations.On("CreateInvitation", ctx, mock.MatchedBy(func(inv *types.Invitation) bool {
			return inv.UserID != nil && *inv.UserID == 20
		})).Return(int64(34), nil)
		d.mailer.On("SendInvitationEmail", ctx, mock.Anything).Return(fmt.Errorf("smtp down"))

		res, err := im.CreateInvitation(ctx, 1, 10, &types.InvitationCreate{Email: "bob@example.com", Message: "Hi"})
		require.NoError(t, err, "email failure must not fail the invitation")
		assert.Equal(t, int64(34), res.ID)
	})

	t.Run("already a member", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.users.On("GetUserByEmail", ctx, "bob@example.com").Return(&types.User{ID: 20}, nil)
		d.trips.On("IsMember", ctx, int64(1), int64(20)).Return(true, nil)

		_, err := im.CreateInvitation(ctx, 1, 10, &types.InvitationCreate{Email: "bob@example.com", Message: "Hi"})
		appErr := assertAppError(t, err, errors.ConflictError, "already_member")
		assert.Equal(t, int64(1), appErr.TripID)
	})

	t.Run("bad email", func(t *testing.T) {
		im, _ := newTestInvitationModel()
		_, err := im.CreateInvitation(ctx, 1, 10, &types.InvitationCreate{Email: "not-an-email", Message: "Hi"})
		assertAppError(t, err, errors.ValidationError, "invalid_argument")
	})

	t.Run("message required", func(t *testing.T) {
		im, _ := newTestInvitationModel()
		_, err := im.CreateInvitation(ctx, 1, 10, &types.InvitationCreate{Email: "a@b.co", Message: "  "})
		assertAppError(t, err, errors.ValidationError, "invalid_argument")
	})

	t.Run("outsider forbidden", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.trips.On("IsMember", ctx, int64(1), int64(99)).Return(false, nil)

		_, err := im.CreateInvitation(ctx, 1, 99, &types.InvitationCreate{Email: "a@b.co", Message: "Hi"})
		assertAppError(t, err, errors.ForbiddenError, "")
	})
}

func TestInvitationModel_GetInvitation(t *testing.T) {
	ctx := context.Background()
	pending := &types.Invitation{ID: 5, TripID: 1, Status: types.InvitationStatusPending}

	t.Run("pending invitation with trip header", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(pending, nil)
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)

		got, err := im.GetInvitation(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "Lisbon", got.Trip.City)
	})

	t.Run("expired once the trip started", func(t *testing.T) {
		im, d := newTestInvitationModel()
		started := testTrip(1, 10)
		started.StartAt = fixedNow.Add(-time.Hour)
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(pending, nil)
		d.trips.On("GetTrip", ctx, int64(1)).Return(started, nil)

		_, err := im.GetInvitation(ctx, 5)
		assertAppError(t, err, errors.GoneError, "invitation_expired")
	})

	t.Run("accepted carries trip id", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(&types.Invitation{ID: 5, TripID: 1, Status: types.InvitationStatusAccepted}, nil)

		_, err := im.GetInvitation(ctx, 5)
		appErr := assertAppError(t, err, errors.ConflictError, "invitation_accepted")
		assert.Equal(t, int64(1), appErr.TripID)
	})

	t.Run("refused is gone", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(&types.Invitation{ID: 5, TripID: 1, Status: types.InvitationStatusRefused}, nil)

		_, err := im.GetInvitation(ctx, 5)
		assertAppError(t, err, errors.GoneError, "invitation_refused")
	})

	t.Run("missing", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.invitations.On("GetInvitation", ctx, int64(6)).Return(nil, fmt.Errorf("invitation: %w", store.ErrNotFound))

		_, err := im.GetInvitation(ctx, 6)
		assertAppError(t, err, errors.NotFoundError, "not_found")
	})
}

func TestInvitationModel_RespondToInvitation(t *testing.T) {
	ctx := context.Background()
	invitee := int64(20)
	newPending := func() *types.Invitation {
		return &types.Invitation{ID: 5, TripID: 1, UserID: int64Ptr(invitee), Status: types.InvitationStatusPending}
	}

	t.Run("accept", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(newPending(), nil)
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.invitations.On("RespondToInvitation", ctx, int64(5), types.InvitationStatusAccepted).Return(true, nil)

		inv, err := im.RespondToInvitation(ctx, 5, invitee, types.InvitationStatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, types.InvitationStatusAccepted, inv.Status)
	})

	t.Run("terminal states never change", func(t *testing.T) {
		for _, current := range []types.InvitationStatus{types.InvitationStatusAccepted, types.InvitationStatusRefused} {
			for _, answer := range []types.InvitationStatus{types.InvitationStatusAccepted, types.InvitationStatusRefused} {
				im, d := newTestInvitationModel()
				inv := newPending()
				inv.Status = current
				d.invitations.On("GetInvitation", ctx, int64(5)).Return(inv, nil)

				_, err := im.RespondToInvitation(ctx, 5, invitee, answer)
				require.Error(t, err)
				if current == types.InvitationStatusAccepted {
					assertAppError(t, err, errors.ConflictError, "invitation_accepted")
				} else {
					assertAppError(t, err, errors.GoneError, "invitation_refused")
				}
				d.invitations.AssertNotCalled(t, "RespondToInvitation", mock.Anything, mock.Anything, mock.Anything)
			}
		}
	})

	t.Run("someone else's invitation", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(newPending(), nil)

		_, err := im.RespondToInvitation(ctx, 5, 99, types.InvitationStatusAccepted)
		assertAppError(t, err, errors.ForbiddenError, "")
	})

	t.Run("unclaimed invitation bound by email", func(t *testing.T) {
		im, d := newTestInvitationModel()
		unbound := newPending()
		unbound.UserID = nil
		unbound.Email = "grace@example.com"
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(unbound, nil)
		d.users.On("GetUserByID", ctx, invitee).Return(&types.User{ID: invitee, Email: "Grace@Example.com"}, nil)
		d.invitations.On("ClaimInvitations", ctx, "Grace@Example.com", invitee).Return(int64(1), nil)
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.invitations.On("RespondToInvitation", ctx, int64(5), types.InvitationStatusAccepted).Return(true, nil)

		inv, err := im.RespondToInvitation(ctx, 5, invitee, types.InvitationStatusAccepted)
		require.NoError(t, err)
		require.NotNil(t, inv.UserID)
		assert.Equal(t, invitee, *inv.UserID)
		d.invitations.AssertExpectations(t)
	})

	t.Run("unclaimed invitation for another address", func(t *testing.T) {
		im, d := newTestInvitationModel()
		unbound := newPending()
		unbound.UserID = nil
		unbound.Email = "grace@example.com"
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(unbound, nil)
		d.users.On("GetUserByID", ctx, invitee).Return(&types.User{ID: invitee, Email: "alan@example.com"}, nil)

		_, err := im.RespondToInvitation(ctx, 5, invitee, types.InvitationStatusAccepted)
		assertAppError(t, err, errors.ForbiddenError, "")
		d.invitations.AssertNotCalled(t, "ClaimInvitations", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired pending invitation", func(t *testing.T) {
		im, d := newTestInvitationModel()
		started := testTrip(1, 10)
		started.StartAt = fixedNow.Add(-time.Minute)
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(newPending(), nil)
		d.trips.On("GetTrip", ctx, int64(1)).Return(started, nil)

		_, err := im.RespondToInvitation(ctx, 5, invitee, types.InvitationStatusRefused)
		assertAppError(t, err, errors.GoneError, "invitation_expired")
	})

	t.Run("lost the race to a concurrent answer", func(t *testing.T) {
		im, d := newTestInvitationModel()
		refused := newPending()
		refused.Status = types.InvitationStatusRefused
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(newPending(), nil).Once()
		d.invitations.On("GetInvitation", ctx, int64(5)).Return(refused, nil).Once()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.invitations.On("RespondToInvitation", ctx, int64(5), types.InvitationStatusAccepted).Return(false, nil)

		_, err := im.RespondToInvitation(ctx, 5, invitee, types.InvitationStatusAccepted)
		assertAppError(t, err, errors.GoneError, "invitation_refused")
	})

	t.Run("invalid status", func(t *testing.T) {
		im, _ := newTestInvitationModel()
		_, err := im.RespondToInvitation(ctx, 5, invitee, types.InvitationStatusPending)
		assertAppError(t, err, errors.ValidationError, "")
	})
}

func TestInvitationModel_RemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("removes accepted member", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.invitations.On("RemoveMember", ctx, int64(1), int64(20)).Return(true, nil)

		removed, err := im.RemoveMember(ctx, 1, 10, 20)
		require.NoError(t, err)
		assert.True(t, removed)
	})

	t.Run("not a member returns false", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)
		d.invitations.On("RemoveMember", ctx, int64(1), int64(42)).Return(false, nil)

		removed, err := im.RemoveMember(ctx, 1, 10, 42)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("only the owner", func(t *testing.T) {
		im, d := newTestInvitationModel()
		d.trips.On("GetTrip", ctx, int64(1)).Return(testTrip(1, 10), nil)

		_, err := im.RemoveMember(ctx, 1, 20, 30)
		assertAppError(t, err, errors.ForbiddenError, "")
		d.invitations.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
	})
}
