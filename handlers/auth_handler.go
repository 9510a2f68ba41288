package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves registration, login and the caller's profile.
type AuthHandler struct {
	users models.UserModelInterface
}

func NewAuthHandler(users models.UserModelInterface) *AuthHandler {
	return &AuthHandler{users: users}
}

// RegisterHandler godoc
// @Summary Create an account
// @Description Registers a user and returns a session token. Pending invitations sent to the email are attached to the new account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body types.RegisterRequest true "Account details"
// @Success 201 {object} types.AuthResponse
// @Failure 400 {object} types.ErrorResponse "Invalid input"
// @Failure 409 {object} types.ErrorResponse "Email already registered"
// @Failure 429 {object} types.ErrorResponse "Too many attempts"
// @Router /auth/register [post]
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body types.LoginRequest true "Credentials"
// @Success 200 {object} types.AuthResponse
// @Failure 400 {object} types.ErrorResponse "Invalid input"
// @Failure 401 {object} types.ErrorResponse "Invalid credentials"
// @Failure 429 {object} types.ErrorResponse "Too many attempts"
// @Router /auth/login [post]
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MeHandler godoc
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} types.User
// @Failure 401 {object} types.ErrorResponse
// @Router /users/me [get]
// @Security BearerAuth
func (h *AuthHandler) MeHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.Me(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
