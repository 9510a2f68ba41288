package models

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/models/validation"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// ExpenseModelInterface is the expense business logic used by the handlers.
type ExpenseModelInterface interface {
	AddExpense(ctx context.Context, tripID, userID int64, req *types.ExpenseCreate) (*types.ExpenseCreated, error)
	GetExpensesForTrip(ctx context.Context, tripID, userID int64) ([]types.Expense, error)
	GetSummary(ctx context.Context, tripID, userID int64) (*types.BudgetSummary, error)
	DeleteExpense(ctx context.Context, tripID, expenseID, userID int64) error
	ListCategories(ctx context.Context) ([]types.ExpenseCategory, error)
}

var _ ExpenseModelInterface = (*ExpenseModel)(nil)

type ExpenseModel struct {
	trips    store.TripStore
	expenses store.ExpenseStore
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewExpenseModel(trips store.TripStore, expenses store.ExpenseStore, m *metrics.Metrics) *ExpenseModel {
	return &ExpenseModel{trips: trips, expenses: expenses, metrics: m, now: time.Now}
}

// AddExpense records a payment and splits it equally over everyone who is a
// member at this moment. Members joining later are not charged.
func (em *ExpenseModel) AddExpense(ctx context.Context, tripID, userID int64, req *types.ExpenseCreate) (*types.ExpenseCreated, error) {
	amount, err := validation.ValidateExpenseCreate(req)
	if err != nil {
		return nil, err
	}

	if _, err := requireMember(ctx, em.trips, tripID, userID); err != nil {
		return nil, err
	}

	members, err := em.trips.ListMembers(ctx, tripID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	participantIDs := make([]int64, len(members))
	payerIsMember := false
	for i, m := range members {
		participantIDs[i] = m.UserID
		if m.UserID == req.PaidBy {
			payerIsMember = true
		}
	}
	if !payerIsMember {
		return nil, errors.ValidationFailed("Invalid expense data", fmt.Sprintf("user %d is not a member of the trip", req.PaidBy))
	}

	ok, err := em.expenses.CategoryExists(ctx, req.CategoryID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	if !ok {
		return nil, errors.ValidationFailed("Invalid expense data", fmt.Sprintf("category %d does not exist", req.CategoryID))
	}

	shares, err := CreateEqualShares(0, amount, participantIDs)
	if err != nil {
		return nil, err
	}

	date := em.now()
	if req.Date != nil {
		date = *req.Date
	}
	expense := &types.Expense{
		TripID:     tripID,
		Title:      req.Title,
		Amount:     amount.Amount(),
		PaidBy:     req.PaidBy,
		CategoryID: req.CategoryID,
		Date:       date,
	}

	id, created, err := em.expenses.CreateExpenseWithShares(ctx, expense, shares)
	if err != nil {
		if stderrors.Is(err, store.ErrInvalidReference) {
			return nil, errors.ValidationFailed("Invalid expense data", "payer, category or participant no longer exists")
		}
		return nil, errors.NewDatabaseError(err)
	}
	em.metrics.ExpenseCreated()

	logger.GetLogger().Infow("Expense added", "tripId", tripID, "expenseId", id, "userId", userID,
		"amount", amount.String(), "participants", len(created))
	return &types.ExpenseCreated{ID: id, Shares: created}, nil
}

func (em *ExpenseModel) GetExpensesForTrip(ctx context.Context, tripID, userID int64) ([]types.Expense, error) {
	if _, err := requireMember(ctx, em.trips, tripID, userID); err != nil {
		return nil, err
	}
	expenses, err := em.expenses.ListTripExpenses(ctx, tripID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return expenses, nil
}

// GetSummary returns the caller's position on the trip.
func (em *ExpenseModel) GetSummary(ctx context.Context, tripID, userID int64) (*types.BudgetSummary, error) {
	if _, err := requireMember(ctx, em.trips, tripID, userID); err != nil {
		return nil, err
	}
	totals, err := em.expenses.GetBudgetTotals(ctx, tripID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	summary := NewBudgetSummary(*totals)
	return &summary, nil
}

// DeleteExpense is allowed to the payer and the trip owner. Shares of the
// remaining expenses are left as they are.
func (em *ExpenseModel) DeleteExpense(ctx context.Context, tripID, expenseID, userID int64) error {
	trip, err := requireMember(ctx, em.trips, tripID, userID)
	if err != nil {
		return err
	}

	expense, err := em.expenses.GetExpense(ctx, tripID, expenseID)
	if err != nil {
		return storeError(err, "Expense", expenseID)
	}
	if expense.PaidBy != userID && trip.OwnerID != userID {
		return errors.Forbidden("Only the payer or the trip owner can delete this expense",
			fmt.Sprintf("user %d cannot delete expense %d", userID, expenseID))
	}

	if err := em.expenses.DeleteExpense(ctx, expenseID); err != nil {
		return storeError(err, "Expense", expenseID)
	}
	logger.GetLogger().Infow("Expense deleted", "tripId", tripID, "expenseId", expenseID, "userId", userID)
	return nil
}

func (em *ExpenseModel) ListCategories(ctx context.Context) ([]types.ExpenseCategory, error) {
	categories, err := em.expenses.ListCategories(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return categories, nil
}
