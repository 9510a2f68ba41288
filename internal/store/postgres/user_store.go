package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

var _ store.UserStore = (*pgUserStore)(nil)

type pgUserStore struct {
	db DBTX
}

// NewUserStore creates a PostgreSQL user store.
func NewUserStore(db DBTX) store.UserStore {
	return &pgUserStore{db: db}
}

func (s *pgUserStore) CreateUser(ctx context.Context, user *types.User) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (firstname, lastname, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		user.Firstname, user.Lastname, strings.ToLower(user.Email), user.PasswordHash,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", mapPgError(err))
	}
	return id, nil
}

func (s *pgUserStore) GetUserByID(ctx context.Context, id int64) (*types.User, error) {
	return s.getUser(ctx, "id = $1", id)
}

func (s *pgUserStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	return s.getUser(ctx, "email = $1", strings.ToLower(email))
}

func (s *pgUserStore) getUser(ctx context.Context, where string, arg any) (*types.User, error) {
	var u types.User
	err := s.db.QueryRow(ctx, `
		SELECT id, firstname, lastname, email, password_hash, created_at
		FROM users
		WHERE `+where, arg,
	).Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &u, nil
}
