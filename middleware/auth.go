package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/auth"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/gin-gonic/gin"
)

// TokenValidator turns a bearer token into a user id.
type TokenValidator interface {
	Validate(token string) (int64, error)
}

// AuthMiddleware requires a valid bearer token and stores the user id under
// UserIDKey. Each failure has its own code so clients can tell an expired
// session from a forged one.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			_ = c.Error(errors.Unauthorized(errors.CodeMissingToken, "Authorization required"))
			c.Abort()
			return
		}

		userID, err := validator.Validate(token)
		if err != nil {
			if stderrors.Is(err, auth.ErrTokenExpired) {
				_ = c.Error(errors.Unauthorized(errors.CodeTokenExpired, "Your session has expired"))
			} else {
				log.Warnw("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
				_ = c.Error(errors.Unauthorized(errors.CodeTokenInvalid, "Invalid token"))
			}
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), userID)
		c.Next()
	}
}
