package postgres

import (
	"context"
	"fmt"

	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

var _ store.StepStore = (*pgStepStore)(nil)

type pgStepStore struct {
	db DBTX
}

// NewStepStore creates a PostgreSQL step store.
func NewStepStore(db DBTX) store.StepStore {
	return &pgStepStore{db: db}
}

func (s *pgStepStore) CreateStep(ctx context.Context, step *types.Step) (int64, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO steps (trip_id, city, country, image_url, user_id, is_initial)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, created_at`,
		step.TripID, step.City, step.Country, step.ImageURL, step.UserID,
	).Scan(&step.ID, &step.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert step: %w", mapPgError(err))
	}
	return step.ID, nil
}

// GetStep returns the step only if it belongs to tripID.
func (s *pgStepStore) GetStep(ctx context.Context, tripID, stepID int64) (*types.Step, error) {
	var st types.Step
	err := s.db.QueryRow(ctx, `
		SELECT id, trip_id, city, country, image_url, user_id, is_initial, created_at
		FROM steps
		WHERE id = $1 AND trip_id = $2`, stepID, tripID,
	).Scan(&st.ID, &st.TripID, &st.City, &st.Country, &st.ImageURL, &st.UserID, &st.IsInitial, &st.CreatedAt)
	if err != nil {
		return nil, notFound(err, "step")
	}
	return &st, nil
}

// ListStepTallies reads every step of the trip with its yes and total vote
// counts in one aggregate query. The initial step comes first.
func (s *pgStepStore) ListStepTallies(ctx context.Context, tripID int64) ([]types.StepTally, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.id, s.trip_id, s.city, s.country, s.image_url, s.user_id, s.is_initial, s.created_at,
		       COUNT(v.id) FILTER (WHERE v.vote) AS yes_votes,
		       COUNT(v.id) AS total_votes
		FROM steps s
		LEFT JOIN votes v ON v.step_id = s.id
		WHERE s.trip_id = $1
		GROUP BY s.id
		ORDER BY s.is_initial DESC, s.created_at, s.id`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	tallies := []types.StepTally{}
	for rows.Next() {
		var t types.StepTally
		err := rows.Scan(
			&t.ID, &t.TripID, &t.City, &t.Country, &t.ImageURL, &t.UserID, &t.IsInitial, &t.CreatedAt,
			&t.Counts.Yes, &t.Counts.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		tallies = append(tallies, t)
	}
	return tallies, rows.Err()
}

// DeleteStep removes the step and, by cascade, its votes.
func (s *pgStepStore) DeleteStep(ctx context.Context, stepID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM steps WHERE id = $1`, stepID)
	if err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("step %d: %w", stepID, store.ErrNotFound)
	}
	return nil
}

// CreateVote relies on UNIQUE (step_id, user_id) to reject a second vote.
func (s *pgStepStore) CreateVote(ctx context.Context, vote *types.Vote) (*types.Vote, error) {
	out := *vote
	err := s.db.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO votes (step_id, user_id, vote, comment)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, created_at
		)
		SELECT i.id, i.created_at, TRIM(u.firstname || ' ' || u.lastname)
		FROM inserted i
		JOIN users u ON u.id = i.user_id`,
		vote.StepID, vote.UserID, vote.Vote, vote.Comment,
	).Scan(&out.ID, &out.CreatedAt, &out.UserName)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vote: %w", mapPgError(err))
	}
	return &out, nil
}

func (s *pgStepStore) ListVotes(ctx context.Context, stepID int64) ([]types.Vote, error) {
	rows, err := s.db.Query(ctx, `
		SELECT v.id, v.step_id, v.user_id, v.vote, v.comment, v.created_at,
		       TRIM(u.firstname || ' ' || u.lastname)
		FROM votes v
		JOIN users u ON u.id = v.user_id
		WHERE v.step_id = $1
		ORDER BY v.created_at DESC, v.id DESC`, stepID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	votes := []types.Vote{}
	for rows.Next() {
		var v types.Vote
		if err := rows.Scan(&v.ID, &v.StepID, &v.UserID, &v.Vote, &v.Comment, &v.CreatedAt, &v.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
