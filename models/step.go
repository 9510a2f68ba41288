package models

import (
	"context"
	stderrors "errors"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/models/validation"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// StepModelInterface is the step and vote business logic used by the handlers.
type StepModelInterface interface {
	ListSteps(ctx context.Context, tripID, userID int64) (*types.StepListResponse, error)
	AddStepCity(ctx context.Context, tripID, userID int64, req *types.StepCreate) (*types.StepCreateResponse, error)
	DeleteStep(ctx context.Context, tripID, stepID, userID int64) error
	CastVote(ctx context.Context, tripID, stepID, userID int64, req *types.VoteCreate) (*types.Vote, error)
	BrowseVotes(ctx context.Context, tripID, stepID, userID int64) (*types.VoteListResponse, error)
}

var _ StepModelInterface = (*StepModel)(nil)

type StepModel struct {
	trips   store.TripStore
	steps   store.StepStore
	images  ImageFinder
	metrics *metrics.Metrics
}

func NewStepModel(trips store.TripStore, steps store.StepStore, images ImageFinder, m *metrics.Metrics) *StepModel {
	return &StepModel{trips: trips, steps: steps, images: images, metrics: m}
}

// ListSteps returns every step of the trip with its derived status.
func (sm *StepModel) ListSteps(ctx context.Context, tripID, userID int64) (*types.StepListResponse, error) {
	trip, err := requireMember(ctx, sm.trips, tripID, userID)
	if err != nil {
		return nil, err
	}

	memberCount, err := sm.trips.CountMembers(ctx, tripID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	tallies, err := sm.steps.ListStepTallies(ctx, tripID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	steps := make([]types.StepWithStatus, len(tallies))
	for i, tally := range tallies {
		steps[i] = withStatus(tally, memberCount)
	}

	return &types.StepListResponse{Trip: trip, MemberCount: memberCount, Steps: steps}, nil
}

// AddStepCity proposes a new destination. It starts pending with no votes.
func (sm *StepModel) AddStepCity(ctx context.Context, tripID, userID int64, req *types.StepCreate) (*types.StepCreateResponse, error) {
	if err := validation.ValidateStepCreate(req); err != nil {
		return nil, err
	}

	trip, err := requireMember(ctx, sm.trips, tripID, userID)
	if err != nil {
		return nil, err
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = sm.images.FindCityImage(ctx, req.City, req.Country)
	}

	step := &types.Step{
		TripID:   tripID,
		City:     req.City,
		Country:  req.Country,
		ImageURL: imageURL,
		UserID:   userID,
	}
	if _, err := sm.steps.CreateStep(ctx, step); err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	logger.GetLogger().Infow("Step proposed", "tripId", tripID, "stepId", step.ID, "userId", userID)
	return &types.StepCreateResponse{
		Trip: trip,
		Step: types.StepWithStatus{Step: *step, Status: types.StepStatusPending},
	}, nil
}

// DeleteStep is owner only. The initial step mirrors the trip itself and
// cannot be removed.
func (sm *StepModel) DeleteStep(ctx context.Context, tripID, stepID, userID int64) error {
	if _, err := requireOwner(ctx, sm.trips, tripID, userID); err != nil {
		return err
	}

	step, err := sm.steps.GetStep(ctx, tripID, stepID)
	if err != nil {
		return storeError(err, "Step", stepID)
	}
	if step.IsInitial {
		return errors.ConflictWithTrip("initial_step_locked", "The initial step of a trip cannot be deleted", tripID)
	}

	if err := sm.steps.DeleteStep(ctx, stepID); err != nil {
		return storeError(err, "Step", stepID)
	}
	logger.GetLogger().Infow("Step deleted", "tripId", tripID, "stepId", stepID, "userId", userID)
	return nil
}

// CastVote records the member's single vote on a step. A second vote is
// rejected by the storage uniqueness constraint. The initial step takes no
// votes.
func (sm *StepModel) CastVote(ctx context.Context, tripID, stepID, userID int64, req *types.VoteCreate) (*types.Vote, error) {
	if req.Vote == nil {
		return nil, errors.ValidationFailed("Invalid vote", "vote is required")
	}
	comment, err := validation.NormalizeVoteComment(req.Comment)
	if err != nil {
		return nil, err
	}

	if _, err := requireMember(ctx, sm.trips, tripID, userID); err != nil {
		return nil, err
	}
	step, err := sm.steps.GetStep(ctx, tripID, stepID)
	if err != nil {
		return nil, storeError(err, "Step", stepID)
	}
	if step.IsInitial {
		return nil, errors.ConflictWithTrip("initial_step_not_votable", "The initial step of a trip is not put to a vote", tripID)
	}

	vote, err := sm.steps.CreateVote(ctx, &types.Vote{StepID: stepID, UserID: userID, Vote: *req.Vote, Comment: comment})
	if err != nil {
		if stderrors.Is(err, store.ErrConflict) {
			return nil, errors.NewConflictError("You already voted on this step", "one vote per member and step")
		}
		return nil, errors.NewDatabaseError(err)
	}
	sm.metrics.VoteCast(vote.Vote)

	logger.GetLogger().Infow("Vote cast", "tripId", tripID, "stepId", stepID, "userId", userID)
	return vote, nil
}

// BrowseVotes lists a step's votes, newest first, with a yes/no summary.
func (sm *StepModel) BrowseVotes(ctx context.Context, tripID, stepID, userID int64) (*types.VoteListResponse, error) {
	if _, err := requireMember(ctx, sm.trips, tripID, userID); err != nil {
		return nil, err
	}
	if _, err := sm.steps.GetStep(ctx, tripID, stepID); err != nil {
		return nil, storeError(err, "Step", stepID)
	}

	votes, err := sm.steps.ListVotes(ctx, stepID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	summary := types.VoteStats{Total: len(votes)}
	for _, v := range votes {
		if v.Vote {
			summary.Yes++
		} else {
			summary.No++
		}
	}
	return &types.VoteListResponse{StepID: stepID, Votes: votes, Summary: summary}, nil
}
