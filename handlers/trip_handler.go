package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	trips models.TripModelInterface
}

func NewTripHandler(trips models.TripModelInterface) *TripHandler {
	return &TripHandler{trips: trips}
}

// CreateTripHandler godoc
// @Summary Create a trip
// @Description Creates a trip owned by the caller together with its initial step. When no image is given one is looked up for the city.
// @Tags trips
// @Accept json
// @Produce json
// @Param request body types.TripCreate true "Trip details"
// @Success 201 {object} types.Trip
// @Failure 400 {object} types.ErrorResponse "Invalid input"
// @Failure 401 {object} types.ErrorResponse
// @Router /trips [post]
// @Security BearerAuth
func (h *TripHandler) CreateTripHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req types.TripCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	trip, err := h.trips.CreateTrip(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// ListUserTripsHandler godoc
// @Summary List the caller's trips
// @Description Trips the caller owns or has accepted an invitation to, optionally narrowed by date.
// @Tags trips
// @Produce json
// @Param status query string false "upcoming, ongoing or past"
// @Success 200 {array} types.TripWithParticipants
// @Failure 400 {object} types.ErrorResponse "Unknown status"
// @Failure 401 {object} types.ErrorResponse
// @Router /trips [get]
// @Security BearerAuth
func (h *TripHandler) ListUserTripsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	trips, err := h.trips.ListUserTrips(c.Request.Context(), userID, types.TripStatusFilter(c.Query("status")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// GetTripHandler godoc
// @Summary Get trip details
// @Tags trips
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} types.TripWithParticipants
// @Failure 400 {object} types.ErrorResponse "Invalid trip ID"
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id} [get]
// @Security BearerAuth
func (h *TripHandler) GetTripHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}

	trip, err := h.trips.GetTrip(c.Request.Context(), tripID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTripHandler godoc
// @Summary Delete a trip
// @Description Owner only. Steps, votes, invitations and expenses go with it.
// @Tags trips
// @Param id path int true "Trip ID"
// @Success 204
// @Failure 403 {object} types.ErrorResponse "Not the owner"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id} [delete]
// @Security BearerAuth
func (h *TripHandler) DeleteTripHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}

	if err := h.trips.DeleteTrip(c.Request.Context(), tripID, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CountTripsHandler godoc
// @Summary Number of trips on the platform
// @Tags trips
// @Produce json
// @Success 200 {object} types.CountResponse
// @Router /trips/count [get]
func (h *TripHandler) CountTripsHandler(c *gin.Context) {
	count, err := h.trips.CountTrips(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.CountResponse{Count: count})
}
