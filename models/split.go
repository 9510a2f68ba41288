package models

import (
	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/pkg/valueobjects"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// CreateEqualShares gives every participant the same share of total,
// rounded to cents. Rounding leftovers are not redistributed, so the shares
// may sum to slightly more or less than total.
func CreateEqualShares(expenseID int64, total valueobjects.Money, participantIDs []int64) ([]types.ExpenseShare, error) {
	if len(participantIDs) == 0 {
		return nil, errors.ValidationFailed("Cannot split expense", "there are no participants to share it")
	}

	amount, err := total.EqualShare(len(participantIDs))
	if err != nil {
		return nil, err
	}

	shares := make([]types.ExpenseShare, len(participantIDs))
	for i, userID := range participantIDs {
		shares[i] = types.ExpenseShare{ExpenseID: expenseID, UserID: userID, ShareAmount: amount}
	}
	return shares, nil
}

// NewBudgetSummary derives the balance: what the member paid minus what
// they owe. Positive means the others owe them.
func NewBudgetSummary(t types.BudgetTotals) types.BudgetSummary {
	return types.BudgetSummary{
		Total:   t.Total,
		Paid:    t.Paid,
		Owed:    t.Owed,
		Balance: t.Paid.Sub(t.Owed),
	}
}
