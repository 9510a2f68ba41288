package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/jackc/pgx/v5"
)

var _ store.InvitationStore = (*pgInvitationStore)(nil)

type pgInvitationStore struct {
	db DBTX
}

// NewInvitationStore creates a PostgreSQL invitation store.
func NewInvitationStore(db DBTX) store.InvitationStore {
	return &pgInvitationStore{db: db}
}

const invitationColumns = `id, trip_id, email, user_id, message, status, created_at, updated_at`

func scanInvitation(row pgx.Row) (*types.Invitation, error) {
	var inv types.Invitation
	err := row.Scan(&inv.ID, &inv.TripID, &inv.Email, &inv.UserID, &inv.Message, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *pgInvitationStore) CreateInvitation(ctx context.Context, inv *types.Invitation) (int64, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO invitations (trip_id, email, user_id, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		inv.TripID, strings.ToLower(inv.Email), inv.UserID, inv.Message, types.InvitationStatusPending,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert invitation: %w", mapPgError(err))
	}
	inv.Status = types.InvitationStatusPending
	return inv.ID, nil
}

func (s *pgInvitationStore) GetInvitation(ctx context.Context, id int64) (*types.Invitation, error) {
	inv, err := scanInvitation(s.db.QueryRow(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "invitation")
	}
	return inv, nil
}

func (s *pgInvitationStore) ListTripInvitations(ctx context.Context, tripID int64) ([]types.Invitation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+invitationColumns+`
		FROM invitations
		WHERE trip_id = $1
		ORDER BY created_at DESC, id DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	invitations := []types.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

// RespondToInvitation only touches rows still pending, so of two concurrent
// answers exactly one wins. Accepting twice for the same trip trips the
// partial unique index and yields store.ErrConflict.
func (s *pgInvitationStore) RespondToInvitation(ctx context.Context, id int64, status types.InvitationStatus) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE invitations
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to update invitation: %w", mapPgError(err))
	}
	return tag.RowsAffected() == 1, nil
}

func (s *pgInvitationStore) RemoveMember(ctx context.Context, tripID, userID int64) (bool, error) {
	removed := false
	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var invitationID int64
		err := tx.QueryRow(ctx, `
			SELECT id
			FROM invitations
			WHERE trip_id = $1 AND user_id = $2 AND status = 'accepted'
			FOR UPDATE`, tripID, userID,
		).Scan(&invitationID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find membership: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM votes
			WHERE user_id = $1
			  AND step_id IN (SELECT id FROM steps WHERE trip_id = $2)`, userID, tripID); err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, invitationID); err != nil {
			return fmt.Errorf("failed to delete invitation: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		logger.GetLogger().Errorw("RemoveMember transaction failed", "tripId", tripID, "userId", userID, "error", err)
		return false, err
	}
	return removed, nil
}

func (s *pgInvitationStore) ClaimInvitations(ctx context.Context, email string, userID int64) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE invitations
		SET user_id = $2, updated_at = NOW()
		WHERE email = $1 AND user_id IS NULL`, strings.ToLower(email), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to claim invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}
