package seed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/internal/auth"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/pkg/valueobjects"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// Seeder writes fixtures through database/sql in a single transaction.
type Seeder struct {
	db         *sql.DB
	bcryptCost int
	now        func() time.Time
}

func NewSeeder(db *sql.DB, bcryptCost int) *Seeder {
	return &Seeder{db: db, bcryptCost: bcryptCost, now: time.Now}
}

// Run inserts every fixture and returns the registry of assigned ids. On
// any error nothing is committed.
func (s *Seeder) Run(ctx context.Context, fx *Fixtures) (*Registry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	reg := NewRegistry()
	steps := []func(context.Context, *sql.Tx, *Fixtures, *Registry) error{
		s.seedUsers,
		s.seedTrips,
		s.seedInvitations,
		s.seedSteps,
		s.seedVotes,
		s.seedExpenses,
	}
	for _, step := range steps {
		if err := step(ctx, tx, fx, reg); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	logger.GetLogger().Infow("Seeding complete",
		"users", reg.Count(KindUser), "trips", reg.Count(KindTrip), "steps", reg.Count(KindStep))
	return reg, nil
}

func (s *Seeder) seedUsers(ctx context.Context, tx *sql.Tx, fx *Fixtures, reg *Registry) error {
	for _, u := range fx.Users {
		hash, err := auth.HashPassword(u.Password, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("user %q: %w", u.Ref, err)
		}
		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (firstname, lastname, email, password_hash)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			u.Firstname, u.Lastname, strings.ToLower(u.Email), hash,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert user %q: %w", u.Ref, err)
		}
		if err := reg.Put(KindUser, u.Ref, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedTrips(ctx context.Context, tx *sql.Tx, fx *Fixtures, reg *Registry) error {
	today := s.now().UTC().Truncate(24 * time.Hour)
	for _, t := range fx.Trips {
		ownerID, err := reg.Resolve(KindUser, t.Owner)
		if err != nil {
			return fmt.Errorf("trip %q: %w", t.Ref, err)
		}
		duration := t.DurationDays
		if duration <= 0 {
			duration = 1
		}
		start := today.AddDate(0, 0, t.StartInDays)
		end := start.AddDate(0, 0, duration)
		image := t.ImageURL
		if image == "" {
			image = types.DefaultCityImage
		}

		var tripID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO trips (title, description, city, country, image_url, start_at, end_at, user_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			t.Title, t.Description, t.City, t.Country, image, start, end, ownerID,
		).Scan(&tripID)
		if err != nil {
			return fmt.Errorf("failed to insert trip %q: %w", t.Ref, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO steps (trip_id, city, country, image_url, user_id, is_initial)
			VALUES ($1, $2, $3, $4, $5, TRUE)`,
			tripID, t.City, t.Country, image, ownerID,
		); err != nil {
			return fmt.Errorf("failed to insert initial step of trip %q: %w", t.Ref, err)
		}

		if err := reg.Put(KindTrip, t.Ref, tripID); err != nil {
			return err
		}
		reg.addMember(tripID, ownerID)
	}
	return nil
}

func (s *Seeder) seedInvitations(ctx context.Context, tx *sql.Tx, fx *Fixtures, reg *Registry) error {
	for i, inv := range fx.Invitations {
		tripID, err := reg.Resolve(KindTrip, inv.Trip)
		if err != nil {
			return fmt.Errorf("invitation %d: %w", i, err)
		}

		status := types.InvitationStatus(inv.Status)
		if status == "" {
			status = types.InvitationStatusPending
		}
		if status != types.InvitationStatusPending && !status.IsResponse() {
			return fmt.Errorf("invitation %d: unknown status %q", i, inv.Status)
		}

		email := inv.Email
		var userID *int64
		if inv.User != "" {
			id, err := reg.Resolve(KindUser, inv.User)
			if err != nil {
				return fmt.Errorf("invitation %d: %w", i, err)
			}
			userID = &id
			if email == "" {
				email = s.emailOf(fx, inv.User)
			}
		}
		if email == "" {
			return fmt.Errorf("invitation %d: needs a user or an email", i)
		}
		if status == types.InvitationStatusAccepted && userID == nil {
			return fmt.Errorf("invitation %d: accepted invitations need a user", i)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO invitations (trip_id, email, user_id, message, status)
			VALUES ($1, $2, $3, $4, $5)`,
			tripID, strings.ToLower(email), userID, inv.Message, string(status),
		); err != nil {
			return fmt.Errorf("failed to insert invitation %d: %w", i, err)
		}
		if status == types.InvitationStatusAccepted {
			reg.addMember(tripID, *userID)
		}
	}
	return nil
}

func (s *Seeder) emailOf(fx *Fixtures, userRef string) string {
	for _, u := range fx.Users {
		if u.Ref == userRef {
			return u.Email
		}
	}
	return ""
}

func (s *Seeder) seedSteps(ctx context.Context, tx *sql.Tx, fx *Fixtures, reg *Registry) error {
	for _, st := range fx.Steps {
		tripID, err := reg.Resolve(KindTrip, st.Trip)
		if err != nil {
			return fmt.Errorf("step %q: %w", st.Ref, err)
		}
		authorID, err := reg.Resolve(KindUser, st.Author)
		if err != nil {
			return fmt.Errorf("step %q: %w", st.Ref, err)
		}

		var stepID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO steps (trip_id, city, country, image_url, user_id, is_initial)
			VALUES ($1, $2, $3, $4, $5, FALSE)
			RETURNING id`,
			tripID, st.City, st.Country, types.DefaultCityImage, authorID,
		).Scan(&stepID)
		if err != nil {
			return fmt.Errorf("failed to insert step %q: %w", st.Ref, err)
		}
		if err := reg.Put(KindStep, st.Ref, stepID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedVotes(ctx context.Context, tx *sql.Tx, fx *Fixtures, reg *Registry) error {
	for i, v := range fx.Votes {
		stepID, err := reg.Resolve(KindStep, v.Step)
		if err != nil {
			return fmt.Errorf("vote %d: %w", i, err)
		}
		voterID, err := reg.Resolve(KindUser, v.Voter)
		if err != nil {
			return fmt.Errorf("vote %d: %w", i, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO votes (step_id, user_id, vote, comment)
			VALUES ($1, $2, $3, $4)`,
			stepID, voterID, v.Vote, v.Comment,
		); err != nil {
			return fmt.Errorf("failed to insert vote %d: %w", i, err)
		}
	}
	return nil
}

func (s *Seeder) seedExpenses(ctx context.Context, tx *sql.Tx, fx *Fixtures, reg *Registry) error {
	for i, e := range fx.Expenses {
		tripID, err := reg.Resolve(KindTrip, e.Trip)
		if err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
		payerID, err := reg.Resolve(KindUser, e.PaidBy)
		if err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
		amount, err := valueobjects.NewMoneyFromString(e.Amount)
		if err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}

		var categoryID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM expense_categories WHERE name = $1`, e.Category,
		).Scan(&categoryID); err != nil {
			return fmt.Errorf("expense %d: category %q: %w", i, e.Category, err)
		}

		shares, err := models.CreateEqualShares(0, amount, reg.Members(tripID))
		if err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}

		var expenseID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO expenses (trip_id, title, amount, paid_by, category_id, date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			tripID, e.Title, amount.String(), payerID, categoryID, s.now().UTC(),
		).Scan(&expenseID)
		if err != nil {
			return fmt.Errorf("failed to insert expense %d: %w", i, err)
		}

		for _, sh := range shares {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO expense_shares (expense_id, user_id, share_amount)
				VALUES ($1, $2, $3)`,
				expenseID, sh.UserID, sh.ShareAmount.StringFixed(2),
			); err != nil {
				return fmt.Errorf("failed to insert share of expense %d: %w", i, err)
			}
		}
	}
	return nil
}
