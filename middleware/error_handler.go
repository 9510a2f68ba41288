package middleware

import (
	"net/http"
	"strconv"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached to the context as
// {type, message, code, details?, tripId?}.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		last := c.Errors.Last()
		err := last.Err

		if appErr, ok := errors.As(err); ok {
			status := appErr.GetHTTPStatus()
			logger.LogHTTPError(c, err, status, string(appErr.Type)+" error")

			resp := types.ErrorResponse{
				Type:    string(appErr.Type),
				Message: appErr.Message,
				Code:    appErr.Code,
				TripID:  appErr.TripID,
			}
			if resp.Code == "" {
				resp.Code = strconv.Itoa(status)
			}
			// Database and server details never leave the process.
			if appErr.Detail != "" && status < http.StatusInternalServerError {
				resp.Details = appErr.Detail
			}
			if appErr.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(appErr.RetryAfter))
			}
			c.JSON(status, resp)
			return
		}

		if last.Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Type:    string(errors.ValidationError),
				Message: "Invalid request body",
				Code:    "invalid_argument",
				Details: err.Error(),
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		resp := types.ErrorResponse{
			Type:    string(errors.ServerError),
			Message: "Internal Server Error",
			Code:    "internal_error",
		}
		if gin.IsDebugging() {
			resp.Details = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}
