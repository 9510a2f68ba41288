package types

import "time"

// User is an account holder. Trips, votes and expenses reference users by id.
type User struct {
	ID           int64     `json:"id"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName is the name shown next to votes and expenses.
func (u *User) DisplayName() string {
	if u.Lastname == "" {
		return u.Firstname
	}
	return u.Firstname + " " + u.Lastname
}

type RegisterRequest struct {
	Firstname string `json:"firstname" binding:"required,max=100"`
	Lastname  string `json:"lastname" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,max=255"`
	Password  string `json:"password" binding:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}
