package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the stores use. pgxmock pools satisfy it too.
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxFn is a function signature for operations to be executed within a transaction.
type TxFn func(tx pgx.Tx) error

// WithTx executes fn within a database transaction, committing when fn
// succeeds and rolling back otherwise.
func WithTx(ctx context.Context, db DBTX, fn TxFn) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.GetLogger().Errorw("Failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}

// mapPgError turns constraint violations into store sentinel errors.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, store.ErrConflict)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", pgErr.ConstraintName, store.ErrInvalidReference)
		}
	}
	return err
}

// notFound maps pgx.ErrNoRows to store.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// Store bundles the postgres implementations behind store.Store.
type Store struct {
	users       *pgUserStore
	trips       *pgTripStore
	steps       *pgStepStore
	invitations *pgInvitationStore
	expenses    *pgExpenseStore
}

var _ store.Store = (*Store)(nil)

// NewStore creates every postgres store over the same pool.
func NewStore(db DBTX) *Store {
	return &Store{
		users:       &pgUserStore{db: db},
		trips:       &pgTripStore{db: db},
		steps:       &pgStepStore{db: db},
		invitations: &pgInvitationStore{db: db},
		expenses:    &pgExpenseStore{db: db},
	}
}

func (s *Store) Users() store.UserStore             { return s.users }
func (s *Store) Trips() store.TripStore             { return s.trips }
func (s *Store) Steps() store.StepStore             { return s.steps }
func (s *Store) Invitations() store.InvitationStore { return s.invitations }
func (s *Store) Expenses() store.ExpenseStore       { return s.expenses }
