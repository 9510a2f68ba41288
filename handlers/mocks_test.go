package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/middleware"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

// newTestRouter mounts routes behind the error middleware. A non-zero
// userID is put on the context the way AuthMiddleware would.
func newTestRouter(userID int64, register func(r gin.IRoutes)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(string(middleware.UserIDKey), userID)
		}
		c.Next()
	})
	register(r)
	return r
}

func doRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var body types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type MockTripModel struct {
	mock.Mock
}

func (m *MockTripModel) CreateTrip(ctx context.Context, userID int64, req *types.TripCreate) (*types.Trip, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Trip), args.Error(1)
}

func (m *MockTripModel) GetTrip(ctx context.Context, tripID, userID int64) (*types.TripWithParticipants, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripWithParticipants), args.Error(1)
}

func (m *MockTripModel) ListUserTrips(ctx context.Context, userID int64, status types.TripStatusFilter) ([]types.TripWithParticipants, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.TripWithParticipants), args.Error(1)
}

func (m *MockTripModel) DeleteTrip(ctx context.Context, tripID, userID int64) error {
	return m.Called(ctx, tripID, userID).Error(0)
}

func (m *MockTripModel) CountTrips(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTripModel) ListMembers(ctx context.Context, tripID, userID int64) ([]types.Member, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Member), args.Error(1)
}

type MockInvitationModel struct {
	mock.Mock
}

func (m *MockInvitationModel) CreateInvitation(ctx context.Context, tripID, userID int64, req *types.InvitationCreate) (*types.InvitationCreated, error) {
	args := m.Called(ctx, tripID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.InvitationCreated), args.Error(1)
}

func (m *MockInvitationModel) ListInvitations(ctx context.Context, tripID, userID int64) (*types.TripInvitations, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripInvitations), args.Error(1)
}

func (m *MockInvitationModel) GetInvitation(ctx context.Context, invitationID int64) (*types.InvitationDetails, error) {
	args := m.Called(ctx, invitationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.InvitationDetails), args.Error(1)
}

func (m *MockInvitationModel) RespondToInvitation(ctx context.Context, invitationID, userID int64, status types.InvitationStatus) (*types.Invitation, error) {
	args := m.Called(ctx, invitationID, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Invitation), args.Error(1)
}

func (m *MockInvitationModel) RemoveMember(ctx context.Context, tripID, requesterID, memberID int64) (bool, error) {
	args := m.Called(ctx, tripID, requesterID, memberID)
	return args.Bool(0), args.Error(1)
}

type MockStepModel struct {
	mock.Mock
}

func (m *MockStepModel) ListSteps(ctx context.Context, tripID, userID int64) (*types.StepListResponse, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StepListResponse), args.Error(1)
}

func (m *MockStepModel) AddStepCity(ctx context.Context, tripID, userID int64, req *types.StepCreate) (*types.StepCreateResponse, error) {
	args := m.Called(ctx, tripID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StepCreateResponse), args.Error(1)
}

func (m *MockStepModel) DeleteStep(ctx context.Context, tripID, stepID, userID int64) error {
	return m.Called(ctx, tripID, stepID, userID).Error(0)
}

func (m *MockStepModel) CastVote(ctx context.Context, tripID, stepID, userID int64, req *types.VoteCreate) (*types.Vote, error) {
	args := m.Called(ctx, tripID, stepID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Vote), args.Error(1)
}

func (m *MockStepModel) BrowseVotes(ctx context.Context, tripID, stepID, userID int64) (*types.VoteListResponse, error) {
	args := m.Called(ctx, tripID, stepID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.VoteListResponse), args.Error(1)
}

type MockExpenseModel struct {
	mock.Mock
}

func (m *MockExpenseModel) AddExpense(ctx context.Context, tripID, userID int64, req *types.ExpenseCreate) (*types.ExpenseCreated, error) {
	args := m.Called(ctx, tripID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ExpenseCreated), args.Error(1)
}

func (m *MockExpenseModel) GetExpensesForTrip(ctx context.Context, tripID, userID int64) ([]types.Expense, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Expense), args.Error(1)
}

func (m *MockExpenseModel) GetSummary(ctx context.Context, tripID, userID int64) (*types.BudgetSummary, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BudgetSummary), args.Error(1)
}

func (m *MockExpenseModel) DeleteExpense(ctx context.Context, tripID, expenseID, userID int64) error {
	return m.Called(ctx, tripID, expenseID, userID).Error(0)
}

func (m *MockExpenseModel) ListCategories(ctx context.Context) ([]types.ExpenseCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ExpenseCategory), args.Error(1)
}

type MockUserModel struct {
	mock.Mock
}

func (m *MockUserModel) Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthResponse), args.Error(1)
}

func (m *MockUserModel) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthResponse), args.Error(1)
}

func (m *MockUserModel) Me(ctx context.Context, userID int64) (*types.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.User), args.Error(1)
}
