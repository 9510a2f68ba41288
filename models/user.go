package models

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/auth"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/models/validation"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"golang.org/x/crypto/bcrypt"
)

// UserModelInterface is the account logic used by the handlers.
type UserModelInterface interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*types.User, error)
}

var _ UserModelInterface = (*UserModel)(nil)

type UserModel struct {
	users       store.UserStore
	invitations store.InvitationStore
	tokens      TokenIssuer
	bcryptCost  int
}

func NewUserModel(users store.UserStore, invitations store.InvitationStore, tokens TokenIssuer, bcryptCost int) *UserModel {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserModel{users: users, invitations: invitations, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates the account, binds pending invitations sent to its email
// and signs the user in.
func (um *UserModel) Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
	log := logger.GetLogger()

	if err := validation.ValidateRegister(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, um.bcryptCost)
	if err != nil {
		return nil, errors.InternalServerError("Failed to secure password")
	}

	user := &types.User{
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Email:        req.Email,
		PasswordHash: hash,
	}
	id, err := um.users.CreateUser(ctx, user)
	if err != nil {
		if stderrors.Is(err, store.ErrConflict) {
			return nil, errors.NewConflictError("An account already exists for this email", "email already registered")
		}
		return nil, errors.NewDatabaseError(err)
	}
	user.ID = id

	claimed, err := um.invitations.ClaimInvitations(ctx, user.Email, user.ID)
	if err != nil {
		// The account exists; RespondToInvitation binds unclaimed invitations by email.
		log.Warnw("Failed to claim invitations", "userId", user.ID, "error", err)
	}
	log.Infow("User registered", "userId", user.ID, "email", logger.MaskEmail(user.Email), "claimedInvitations", claimed)

	return um.issue(user)
}

func (um *UserModel) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	user, err := um.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			return nil, errors.AuthenticationFailed("Invalid email or password")
		}
		return nil, errors.NewDatabaseError(err)
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, errors.AuthenticationFailed("Invalid email or password")
	}
	return um.issue(user)
}

func (um *UserModel) Me(ctx context.Context, userID int64) (*types.User, error) {
	user, err := um.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User", userID)
	}
	return user, nil
}

func (um *UserModel) issue(user *types.User) (*types.AuthResponse, error) {
	token, expiresAt, err := um.tokens.Issue(user.ID)
	if err != nil {
		return nil, errors.InternalServerError("Failed to issue token")
	}
	return &types.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
