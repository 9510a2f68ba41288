package handlers

import (
	"strconv"

	apperrors "github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/middleware"
	"github.com/gin-gonic/gin"
)

// currentUserID returns the authenticated caller. It attaches an auth error
// and returns false when the route was mounted without AuthMiddleware.
func currentUserID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		_ = c.Error(apperrors.Unauthorized(apperrors.CodeMissingToken, "Authorization required"))
		return 0, false
	}
	return userID, true
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperrors.ValidationFailed("Invalid "+name, "expected a positive integer, got "+strconv.Quote(raw)))
		return 0, false
	}
	return id, true
}

// bindJSONOrError binds JSON request body and sets validation error if binding fails.
// Returns true if binding succeeded, false if error was set (caller should return).
func bindJSONOrError(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request payload", err.Error()))
		return false
	}
	return true
}

// tripScope resolves the caller and the :id trip parameter, the pair almost
// every trip-scoped route starts with.
func tripScope(c *gin.Context) (tripID, userID int64, ok bool) {
	if userID, ok = currentUserID(c); !ok {
		return 0, 0, false
	}
	if tripID, ok = parseIDParam(c, "id"); !ok {
		return 0, 0, false
	}
	return tripID, userID, true
}
