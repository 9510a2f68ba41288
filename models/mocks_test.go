package models

import (
	"context"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/stretchr/testify/mock"
)

func init() {
	logger.IsTest = true
}

// --- Mocks ---

type MockTripStore struct {
	mock.Mock
}

var _ store.TripStore = (*MockTripStore)(nil)

func (m *MockTripStore) CreateTrip(ctx context.Context, trip *types.Trip) (int64, int64, error) {
	args := m.Called(ctx, trip)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockTripStore) GetTrip(ctx context.Context, id int64) (*types.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockTripStore) ListUserTrips(ctx context.Context, userID int64) ([]types.TripWithParticipants, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripWithParticipants), args.Error(1)
}

func (m *MockTripStore) CountTrips(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTripStore) DeleteTrip(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTripStore) IsMember(ctx context.Context, tripID, userID int64) (bool, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTripStore) CountMembers(ctx context.Context, tripID int64) (int, error) {
	args := m.Called(ctx, tripID)
	return args.Int(0), args.Error(1)
}

func (m *MockTripStore) ListMembers(ctx context.Context, tripID int64) ([]types.Member, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Member), args.Error(1)
}

type MockStepStore struct {
	mock.Mock
}

var _ store.StepStore = (*MockStepStore)(nil)

func (m *MockStepStore) CreateStep(ctx context.Context, step *types.Step) (int64, error) {
	args := m.Called(ctx, step)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStepStore) GetStep(ctx context.Context, tripID, stepID int64) (*types.Step, error) {
	args := m.Called(ctx, tripID, stepID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Step), args.Error(1)
}

func (m *MockStepStore) ListStepTallies(ctx context.Context, tripID int64) ([]types.StepTally, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.StepTally), args.Error(1)
}

func (m *MockStepStore) DeleteStep(ctx context.Context, stepID int64) error {
	return m.Called(ctx, stepID).Error(0)
}

func (m *MockStepStore) CreateVote(ctx context.Context, vote *types.Vote) (*types.Vote, error) {
	args := m.Called(ctx, vote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Vote), args.Error(1)
}

func (m *MockStepStore) ListVotes(ctx context.Context, stepID int64) ([]types.Vote, error) {
	args := m.Called(ctx, stepID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Vote), args.Error(1)
}

type MockInvitationStore struct {
	mock.Mock
}

var _ store.InvitationStore = (*MockInvitationStore)(nil)

func (m *MockInvitationStore) CreateInvitation(ctx context.Context, inv *types.Invitation) (int64, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvitationStore) GetInvitation(ctx context.Context, id int64) (*types.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Invitation), args.Error(1)
}

func (m *MockInvitationStore) ListTripInvitations(ctx context.Context, tripID int64) ([]types.Invitation, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Invitation), args.Error(1)
}

func (m *MockInvitationStore) RespondToInvitation(ctx context.Context, id int64, status types.InvitationStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvitationStore) RemoveMember(ctx context.Context, tripID, userID int64) (bool, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvitationStore) ClaimInvitations(ctx context.Context, email string, userID int64) (int64, error) {
	args := m.Called(ctx, email, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) CreateUser(ctx context.Context, user *types.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}

type MockExpenseStore struct {
	mock.Mock
}

var _ store.ExpenseStore = (*MockExpenseStore)(nil)

func (m *MockExpenseStore) CreateExpenseWithShares(ctx context.Context, expense *types.Expense, shares []types.ExpenseShare) (int64, []types.ExpenseShare, error) {
	args := m.Called(ctx, expense, shares)
	if args.Get(1) == nil {
		return args.Get(0).(int64), nil, args.Error(2)
	}
	return args.Get(0).(int64), args.Get(1).([]types.ExpenseShare), args.Error(2)
}

func (m *MockExpenseStore) GetExpense(ctx context.Context, tripID, expenseID int64) (*types.Expense, error) {
	args := m.Called(ctx, tripID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Expense), args.Error(1)
}

func (m *MockExpenseStore) ListTripExpenses(ctx context.Context, tripID int64) ([]types.Expense, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Expense), args.Error(1)
}

func (m *MockExpenseStore) ListCategories(ctx context.Context) ([]types.ExpenseCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ExpenseCategory), args.Error(1)
}

func (m *MockExpenseStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockExpenseStore) GetBudgetTotals(ctx context.Context, tripID, userID int64) (*types.BudgetTotals, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BudgetTotals), args.Error(1)
}

func (m *MockExpenseStore) DeleteExpense(ctx context.Context, expenseID int64) error {
	return m.Called(ctx, expenseID).Error(0)
}

type MockEmailService struct {
	mock.Mock
}

var _ types.EmailService = (*MockEmailService)(nil)

func (m *MockEmailService) SendInvitationEmail(ctx context.Context, data types.EmailData) error {
	return m.Called(ctx, data).Error(0)
}

type stubImages struct {
	url string
}

func (s stubImages) FindCityImage(context.Context, string, string) string {
	if s.url == "" {
		return types.DefaultCityImage
	}
	return s.url
}

type stubTokens struct{}

func (stubTokens) Issue(userID int64) (string, time.Time, error) {
	return "token", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

// --- Fixtures ---

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testTrip(id, ownerID int64) *types.Trip {
	return &types.Trip{
		ID:      id,
		Title:   "Summer in Portugal",
		City:    "Lisbon",
		Country: "Portugal",
		StartAt: fixedNow.Add(10 * 24 * time.Hour),
		EndAt:   fixedNow.Add(17 * 24 * time.Hour),
		OwnerID: ownerID,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }
