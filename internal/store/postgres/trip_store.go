package postgres

import (
	"context"
	"fmt"

	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/jackc/pgx/v5"
)

var _ store.TripStore = (*pgTripStore)(nil)

type pgTripStore struct {
	db DBTX
}

// NewTripStore creates a PostgreSQL trip store.
func NewTripStore(db DBTX) store.TripStore {
	return &pgTripStore{db: db}
}

const tripColumns = `t.id, t.title, t.description, t.city, t.country, t.image_url,
		t.start_at, t.end_at, t.user_id, t.created_at`

func scanTrip(row pgx.Row, extra ...any) (*types.Trip, error) {
	var t types.Trip
	dest := append([]any{
		&t.ID, &t.Title, &t.Description, &t.City, &t.Country, &t.ImageURL,
		&t.StartAt, &t.EndAt, &t.OwnerID, &t.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTrip inserts the trip and its initial step, which copies the trip's
// city, country and image, in a single transaction.
func (s *pgTripStore) CreateTrip(ctx context.Context, trip *types.Trip) (int64, int64, error) {
	log := logger.GetLogger()
	var tripID, stepID int64

	err := WithTx(ctx, s.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO trips (title, description, city, country, image_url, start_at, end_at, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			trip.Title, trip.Description, trip.City, trip.Country, trip.ImageURL,
			trip.StartAt, trip.EndAt, trip.OwnerID,
		).Scan(&tripID, &trip.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert trip: %w", mapPgError(err))
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO steps (trip_id, city, country, image_url, user_id, is_initial)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING id`,
			tripID, trip.City, trip.Country, trip.ImageURL, trip.OwnerID,
		).Scan(&stepID)
		if err != nil {
			return fmt.Errorf("failed to insert initial step: %w", mapPgError(err))
		}
		return nil
	})
	if err != nil {
		log.Errorw("CreateTrip transaction failed", "userId", trip.OwnerID, "error", err)
		return 0, 0, err
	}

	trip.ID = tripID
	return tripID, stepID, nil
}

func (s *pgTripStore) GetTrip(ctx context.Context, id int64) (*types.Trip, error) {
	trip, err := scanTrip(s.db.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		WHERE t.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "trip")
	}
	return trip, nil
}

func (s *pgTripStore) ListUserTrips(ctx context.Context, userID int64) ([]types.TripWithParticipants, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+tripColumns+`,
			(SELECT COUNT(*) FROM invitations i
			 WHERE i.trip_id = t.id AND i.status = 'accepted') + 1 AS participants
		FROM trips t
		WHERE t.user_id = $1
		   OR EXISTS (SELECT 1 FROM invitations i
		              WHERE i.trip_id = t.id AND i.user_id = $1 AND i.status = 'accepted')
		ORDER BY t.start_at, t.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []types.TripWithParticipants{}
	for rows.Next() {
		var participants int
		trip, err := scanTrip(rows, &participants)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, types.TripWithParticipants{Trip: *trip, Participants: participants})
	}
	return trips, rows.Err()
}

func (s *pgTripStore) CountTrips(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}

// DeleteTrip removes the trip. Steps, votes, invitations, expenses and shares
// go with it through ON DELETE CASCADE.
func (s *pgTripStore) DeleteTrip(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *pgTripStore) IsMember(ctx context.Context, tripID, userID int64) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1 AND user_id = $2)
		    OR EXISTS (SELECT 1 FROM invitations
		               WHERE trip_id = $1 AND user_id = $2 AND status = 'accepted')`,
		tripID, userID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return ok, nil
}

func (s *pgTripStore) CountMembers(ctx context.Context, tripID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) + 1
		FROM invitations
		WHERE trip_id = $1 AND status = 'accepted'`, tripID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// ListMembers returns the owner first, then accepted invitees by name.
func (s *pgTripStore) ListMembers(ctx context.Context, tripID int64) ([]types.Member, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.firstname, u.lastname, u.email, TRUE AS is_owner
		FROM trips t
		JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
		UNION ALL
		SELECT u.id, u.firstname, u.lastname, u.email, FALSE AS is_owner
		FROM invitations i
		JOIN users u ON u.id = i.user_id
		WHERE i.trip_id = $1 AND i.status = 'accepted'
		ORDER BY is_owner DESC, firstname, lastname, id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []types.Member{}
	for rows.Next() {
		var m types.Member
		if err := rows.Scan(&m.UserID, &m.Firstname, &m.Lastname, &m.Email, &m.IsOwner); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
