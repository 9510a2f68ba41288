package handlers

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-planner/models"
	"github.com/NomadCrew/nomad-crew-planner/types"
	"github.com/gin-gonic/gin"
)

// StepHandler serves trip steps and the votes on them.
type StepHandler struct {
	steps models.StepModelInterface
}

func NewStepHandler(steps models.StepModelInterface) *StepHandler {
	return &StepHandler{steps: steps}
}

func (h *StepHandler) stepScope(c *gin.Context) (tripID, stepID, userID int64, ok bool) {
	if tripID, userID, ok = tripScope(c); !ok {
		return 0, 0, 0, false
	}
	if stepID, ok = parseIDParam(c, "stepId"); !ok {
		return 0, 0, 0, false
	}
	return tripID, stepID, userID, true
}

// ListStepsHandler godoc
// @Summary List a trip's steps
// @Description Every step with its vote tally and derived status. A step stays pending until every member has voted, then is validated on a strict yes majority and rejected otherwise. The initial step is always validated.
// @Tags steps
// @Produce json
// @Param id path int true "Trip ID"
// @Success 200 {object} types.StepListResponse
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/steps [get]
// @Security BearerAuth
func (h *StepHandler) ListStepsHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}

	resp, err := h.steps.ListSteps(c.Request.Context(), tripID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddStepHandler godoc
// @Summary Propose a step
// @Tags steps
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param request body types.StepCreate true "City and country"
// @Success 201 {object} types.StepCreateResponse
// @Failure 400 {object} types.ErrorResponse "Invalid input"
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Router /trips/{id}/steps [post]
// @Security BearerAuth
func (h *StepHandler) AddStepHandler(c *gin.Context) {
	tripID, userID, ok := tripScope(c)
	if !ok {
		return
	}
	var req types.StepCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	resp, err := h.steps.AddStepCity(c.Request.Context(), tripID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteStepHandler godoc
// @Summary Delete a step
// @Description Only the trip owner may delete a step. The initial step cannot be deleted.
// @Tags steps
// @Param id path int true "Trip ID"
// @Param stepId path int true "Step ID"
// @Success 204
// @Failure 403 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse "Initial step"
// @Router /trips/{id}/steps/{stepId} [delete]
// @Security BearerAuth
func (h *StepHandler) DeleteStepHandler(c *gin.Context) {
	tripID, stepID, userID, ok := h.stepScope(c)
	if !ok {
		return
	}

	if err := h.steps.DeleteStep(c.Request.Context(), tripID, stepID, userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CastVoteHandler godoc
// @Summary Vote on a step
// @Description One vote per member per step.
// @Tags votes
// @Accept json
// @Produce json
// @Param id path int true "Trip ID"
// @Param stepId path int true "Step ID"
// @Param request body types.VoteCreate true "Vote"
// @Success 201 {object} types.Vote
// @Failure 400 {object} types.ErrorResponse "Invalid input"
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse "Already voted, or the initial step"
// @Router /trips/{id}/steps/{stepId}/votes [post]
// @Security BearerAuth
func (h *StepHandler) CastVoteHandler(c *gin.Context) {
	tripID, stepID, userID, ok := h.stepScope(c)
	if !ok {
		return
	}
	var req types.VoteCreate
	if !bindJSONOrError(c, &req) {
		return
	}

	vote, err := h.steps.CastVote(c.Request.Context(), tripID, stepID, userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, vote)
}

// BrowseVotesHandler godoc
// @Summary List votes on a step
// @Tags votes
// @Produce json
// @Param id path int true "Trip ID"
// @Param stepId path int true "Step ID"
// @Success 200 {object} types.VoteListResponse
// @Failure 403 {object} types.ErrorResponse "Not a member"
// @Failure 404 {object} types.ErrorResponse
// @Router /trips/{id}/steps/{stepId}/votes [get]
// @Security BearerAuth
func (h *StepHandler) BrowseVotesHandler(c *gin.Context) {
	tripID, stepID, userID, ok := h.stepScope(c)
	if !ok {
		return
	}

	resp, err := h.steps.BrowseVotes(c.Request.Context(), tripID, stepID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
