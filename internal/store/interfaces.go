package store

import (
	"context"

	"github.com/NomadCrew/nomad-crew-planner/types"
)

// Store groups every data access interface used by the models.
type Store interface {
	Users() UserStore
	Trips() TripStore
	Steps() StepStore
	Invitations() InvitationStore
	Expenses() ExpenseStore
}

// UserStore handles user accounts.
type UserStore interface {
	// CreateUser inserts the user and returns its id. A taken email yields ErrConflict.
	CreateUser(ctx context.Context, user *types.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
}

// TripStore handles trips and membership lookups.
type TripStore interface {
	// CreateTrip inserts the trip and its initial step in one transaction.
	CreateTrip(ctx context.Context, trip *types.Trip) (tripID int64, stepID int64, err error)
	GetTrip(ctx context.Context, id int64) (*types.Trip, error)
	// ListUserTrips returns trips the user owns or joined, soonest first.
	ListUserTrips(ctx context.Context, userID int64) ([]types.TripWithParticipants, error)
	CountTrips(ctx context.Context) (int64, error)
	DeleteTrip(ctx context.Context, id int64) error
	// IsMember reports whether the user owns the trip or holds an accepted invitation.
	IsMember(ctx context.Context, tripID, userID int64) (bool, error)
	// CountMembers counts accepted invitees plus the owner.
	CountMembers(ctx context.Context, tripID int64) (int, error)
	ListMembers(ctx context.Context, tripID int64) ([]types.Member, error)
}

// StepStore handles steps and the votes cast on them.
type StepStore interface {
	CreateStep(ctx context.Context, step *types.Step) (int64, error)
	GetStep(ctx context.Context, tripID, stepID int64) (*types.Step, error)
	// ListStepTallies returns every step of the trip with its raw vote counts.
	ListStepTallies(ctx context.Context, tripID int64) ([]types.StepTally, error)
	DeleteStep(ctx context.Context, stepID int64) error
	// CreateVote inserts a vote. A second vote by the same user yields ErrConflict.
	CreateVote(ctx context.Context, vote *types.Vote) (*types.Vote, error)
	// ListVotes returns the step's votes newest first, with voter names.
	ListVotes(ctx context.Context, stepID int64) ([]types.Vote, error)
}

// InvitationStore handles invitations, the source of non-owner membership.
type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *types.Invitation) (int64, error)
	GetInvitation(ctx context.Context, id int64) (*types.Invitation, error)
	ListTripInvitations(ctx context.Context, tripID int64) ([]types.Invitation, error)
	// RespondToInvitation moves a pending invitation to status. It returns
	// false when the invitation was no longer pending.
	RespondToInvitation(ctx context.Context, id int64, status types.InvitationStatus) (bool, error)
	// RemoveMember deletes the user's votes on the trip and their accepted
	// invitation. It returns false, and changes nothing, when no accepted
	// invitation exists.
	RemoveMember(ctx context.Context, tripID, userID int64) (bool, error)
	// ClaimInvitations binds unowned invitations sent to email to userID.
	ClaimInvitations(ctx context.Context, email string, userID int64) (int64, error)
}

// ExpenseStore handles expenses, their shares and categories.
type ExpenseStore interface {
	// CreateExpenseWithShares inserts the expense and its shares atomically.
	CreateExpenseWithShares(ctx context.Context, expense *types.Expense, shares []types.ExpenseShare) (int64, []types.ExpenseShare, error)
	GetExpense(ctx context.Context, tripID, expenseID int64) (*types.Expense, error)
	ListTripExpenses(ctx context.Context, tripID int64) ([]types.Expense, error)
	ListCategories(ctx context.Context) ([]types.ExpenseCategory, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	GetBudgetTotals(ctx context.Context, tripID, userID int64) (*types.BudgetTotals, error)
	DeleteExpense(ctx context.Context, expenseID int64) error
}
