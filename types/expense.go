package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Expense is a payment made by one member on behalf of the whole trip.
type Expense struct {
	ID           int64           `json:"id"`
	TripID       int64           `json:"tripId"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       int64           `json:"paidBy"`
	PaidByName   string          `json:"paidByName,omitempty"`
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName,omitempty"`
	Date         time.Time       `json:"date"`
	Shares       []ExpenseShare  `json:"shares"`
}

// ExpenseShare is one member's part of an expense.
type ExpenseShare struct {
	ID          int64           `json:"id"`
	ExpenseID   int64           `json:"expenseId"`
	UserID      int64           `json:"userId"`
	Firstname   string          `json:"firstname,omitempty"`
	ShareAmount decimal.Decimal `json:"shareAmount"`
}

type ExpenseCreate struct {
	Title      string           `json:"title" binding:"required,max=255"`
	Amount     *decimal.Decimal `json:"amount" binding:"required"`
	PaidBy     int64            `json:"paidBy" binding:"required"`
	CategoryID int64            `json:"categoryId" binding:"required"`
	Date       *time.Time       `json:"date"`
}

type ExpenseCreated struct {
	ID     int64          `json:"id"`
	Shares []ExpenseShare `json:"shares"`
}

// BudgetTotals are the three sums a summary is derived from.
type BudgetTotals struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
	Owed  decimal.Decimal
}

// BudgetSummary is a member's position on a trip. A positive balance means
// the others owe this member money.
type BudgetSummary struct {
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Owed    decimal.Decimal `json:"owed"`
	Balance decimal.Decimal `json:"balance"`
}
