package handlers

import (
	"net/http"
	"testing"
	"time"

	apperrors "github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAuthRouter(userID int64) (*gin.Engine, *MockUserModel) {
	m := new(MockUserModel)
	h := NewAuthHandler(m)
	r := newTestRouter(userID, func(r gin.IRoutes) {
		r.POST("/auth/register", h.RegisterHandler)
		r.POST("/auth/login", h.LoginHandler)
		r.GET("/users/me", h.MeHandler)
	})
	return r, m
}

func TestRegisterHandler(t *testing.T) {
	req := &types.RegisterRequest{Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com", Password: "correct horse"}

	t.Run("created", func(t *testing.T) {
		r, m := setupAuthRouter(0)
		m.On("Register", mock.Anything, req).Return(&types.AuthResponse{
			Token:     "tok",
			ExpiresAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			User:      &types.User{ID: 1, Firstname: "Ada"},
		}, nil)

		w := doRequest(r, http.MethodPost, "/auth/register", req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"tok"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("email taken", func(t *testing.T) {
		r, m := setupAuthRouter(0)
		m.On("Register", mock.Anything, req).Return(nil, apperrors.NewConflictError("Email already registered", ""))

		w := doRequest(r, http.MethodPost, "/auth/register", req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	r, m := setupAuthRouter(0)
	m.On("Login", mock.Anything, &types.LoginRequest{Email: "ada@example.com", Password: "wrong"}).
		Return(nil, apperrors.Unauthorized(apperrors.CodeInvalidCredentials, "Invalid email or password"))

	w := doRequest(r, http.MethodPost, "/auth/login", map[string]string{"email": "ada@example.com", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decodeError(t, w).Code)
}

func TestMeHandler(t *testing.T) {
	r, m := setupAuthRouter(1)
	m.On("Me", mock.Anything, int64(1)).Return(&types.User{ID: 1, Firstname: "Ada", Email: "ada@example.com"}, nil)

	w := doRequest(r, http.MethodGet, "/users/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ada@example.com"`)
}
