package postgres

import (
	"context"
	"fmt"

	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/jackc/pgx/v5"
)

var _ store.ExpenseStore = (*pgExpenseStore)(nil)

type pgExpenseStore struct {
	db DBTX
}

// NewExpenseStore creates a PostgreSQL expense store.
func NewExpenseStore(db DBTX) store.ExpenseStore {
	return &pgExpenseStore{db: db}
}

// CreateExpenseWithShares writes the expense and one row per share in a
// single transaction. The returned shares carry their ids and expense id.
func (s *pgExpenseStore) CreateExpenseWithShares(ctx context.Context, expense *types.Expense, shares []types.ExpenseShare) (int64, []types.ExpenseShare, error) {
	var expenseID int64
	created := make([]types.ExpenseShare, len(shares))

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO expenses (trip_id, title, amount, paid_by, category_id, date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			expense.TripID, expense.Title, expense.Amount, expense.PaidBy, expense.CategoryID, expense.Date,
		).Scan(&expenseID)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", mapPgError(err))
		}

		for i, share := range shares {
			share.ExpenseID = expenseID
			err := tx.QueryRow(ctx, `
				INSERT INTO expense_shares (expense_id, user_id, share_amount)
				VALUES ($1, $2, $3)
				RETURNING id`,
				expenseID, share.UserID, share.ShareAmount,
			).Scan(&share.ID)
			if err != nil {
				return fmt.Errorf("failed to insert share for user %d: %w", share.UserID, mapPgError(err))
			}
			created[i] = share
		}
		return nil
	})
	if err != nil {
		logger.GetLogger().Errorw("CreateExpense transaction failed", "tripId", expense.TripID, "error", err)
		return 0, nil, err
	}

	expense.ID = expenseID
	return expenseID, created, nil
}

// GetExpense returns the expense only if it belongs to tripID. Shares are not loaded.
func (s *pgExpenseStore) GetExpense(ctx context.Context, tripID, expenseID int64) (*types.Expense, error) {
	var e types.Expense
	err := s.db.QueryRow(ctx, `
		SELECT id, trip_id, title, amount, paid_by, category_id, date
		FROM expenses
		WHERE id = $1 AND trip_id = $2`, expenseID, tripID,
	).Scan(&e.ID, &e.TripID, &e.Title, &e.Amount, &e.PaidBy, &e.CategoryID, &e.Date)
	if err != nil {
		return nil, notFound(err, "expense")
	}
	return &e, nil
}

// ListTripExpenses returns the trip's expenses, newest id first, each with
// its shares. Two queries, joined in memory.
func (s *pgExpenseStore) ListTripExpenses(ctx context.Context, tripID int64) ([]types.Expense, error) {
	rows, err := s.db.Query(ctx, `
		SELECT e.id, e.trip_id, e.title, e.amount, e.paid_by,
		       TRIM(u.firstname || ' ' || u.lastname), e.category_id, c.name, e.date
		FROM expenses e
		JOIN users u ON u.id = e.paid_by
		JOIN expense_categories c ON c.id = e.category_id
		WHERE e.trip_id = $1
		ORDER BY e.id DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	expenses := []types.Expense{}
	index := map[int64]int{}
	for rows.Next() {
		var e types.Expense
		err := rows.Scan(&e.ID, &e.TripID, &e.Title, &e.Amount, &e.PaidBy, &e.PaidByName, &e.CategoryID, &e.CategoryName, &e.Date)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Shares = []types.ExpenseShare{}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	rows, err = s.db.Query(ctx, `
		SELECT sh.id, sh.expense_id, sh.user_id, u.firstname, sh.share_amount
		FROM expense_shares sh
		JOIN expenses e ON e.id = sh.expense_id
		JOIN users u ON u.id = sh.user_id
		WHERE e.trip_id = $1
		ORDER BY sh.expense_id, sh.id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sh types.ExpenseShare
		if err := rows.Scan(&sh.ID, &sh.ExpenseID, &sh.UserID, &sh.Firstname, &sh.ShareAmount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if i, ok := index[sh.ExpenseID]; ok {
			expenses[i].Shares = append(expenses[i].Shares, sh)
		}
	}
	return expenses, rows.Err()
}

func (s *pgExpenseStore) ListCategories(ctx context.Context) ([]types.ExpenseCategory, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM expense_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []types.ExpenseCategory{}
	for rows.Next() {
		var c types.ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *pgExpenseStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM expense_categories WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return ok, nil
}

// GetBudgetTotals sums the trip total, what userID paid and what userID owes.
func (s *pgExpenseStore) GetBudgetTotals(ctx context.Context, tripID, userID int64) (*types.BudgetTotals, error) {
	var t types.BudgetTotals
	err := s.db.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM expenses WHERE trip_id = $1), 0),
			COALESCE((SELECT SUM(amount) FROM expenses WHERE trip_id = $1 AND paid_by = $2), 0),
			COALESCE((SELECT SUM(sh.share_amount)
			          FROM expense_shares sh
			          JOIN expenses e ON e.id = sh.expense_id
			          WHERE e.trip_id = $1 AND sh.user_id = $2), 0)`,
		tripID, userID,
	).Scan(&t.Total, &t.Paid, &t.Owed)
	if err != nil {
		return nil, fmt.Errorf("failed to compute budget totals: %w", err)
	}
	return &t, nil
}

// DeleteExpense removes the expense; its shares cascade.
func (s *pgExpenseStore) DeleteExpense(ctx context.Context, expenseID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %d: %w", expenseID, store.ErrNotFound)
	}
	return nil
}
