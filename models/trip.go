package models

import (
	"context"
	"time"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/metrics"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/logger"
	"github.com/NomadCrew/nomad-crew-planner/models/validation"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// TripModelInterface is the trip business logic used by the handlers.
type TripModelInterface interface {
	CreateTrip(ctx context.Context, userID int64, req *types.TripCreate) (*types.Trip, error)
	GetTrip(ctx context.Context, tripID, userID int64) (*types.TripWithParticipants, error)
	ListUserTrips(ctx context.Context, userID int64, status types.TripStatusFilter) ([]types.TripWithParticipants, error)
	DeleteTrip(ctx context.Context, tripID, userID int64) error
	CountTrips(ctx context.Context) (int64, error)
	ListMembers(ctx context.Context, tripID, userID int64) ([]types.Member, error)
}

var _ TripModelInterface = (*TripModel)(nil)

type TripModel struct {
	trips   store.TripStore
	images  ImageFinder
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewTripModel(trips store.TripStore, images ImageFinder, m *metrics.Metrics) *TripModel {
	return &TripModel{trips: trips, images: images, metrics: m, now: time.Now}
}

// CreateTrip validates the request, resolves a city picture when none was
// given, and stores the trip with its initial step.
func (tm *TripModel) CreateTrip(ctx context.Context, userID int64, req *types.TripCreate) (*types.Trip, error) {
	log := logger.GetLogger()

	if err := validation.ValidateTripCreate(req, tm.now()); err != nil {
		return nil, err
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = tm.images.FindCityImage(ctx, req.City, req.Country)
	}

	trip := &types.Trip{
		Title:       req.Title,
		Description: req.Description,
		City:        req.City,
		Country:     req.Country,
		ImageURL:    imageURL,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		OwnerID:     userID,
	}

	tripID, stepID, err := tm.trips.CreateTrip(ctx, trip)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	tm.metrics.TripCreated()

	log.Infow("Trip created", "tripId", tripID, "initialStepId", stepID, "userId", userID)
	return trip, nil
}

func (tm *TripModel) GetTrip(ctx context.Context, tripID, userID int64) (*types.TripWithParticipants, error) {
	trip, err := requireMember(ctx, tm.trips, tripID, userID)
	if err != nil {
		return nil, err
	}

	count, err := tm.trips.CountMembers(ctx, tripID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return &types.TripWithParticipants{Trip: *trip, Participants: count}, nil
}

// ListUserTrips returns the trips userID owns or joined, narrowed by status.
func (tm *TripModel) ListUserTrips(ctx context.Context, userID int64, status types.TripStatusFilter) ([]types.TripWithParticipants, error) {
	if !status.IsValid() {
		return nil, errors.ValidationFailed("Invalid status filter", "status must be one of upcoming, ongoing, past")
	}

	trips, err := tm.trips.ListUserTrips(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	if status == types.TripStatusAll {
		return trips, nil
	}

	now := tm.now()
	filtered := make([]types.TripWithParticipants, 0, len(trips))
	for _, t := range trips {
		if status.Matches(&t.Trip, now) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (tm *TripModel) DeleteTrip(ctx context.Context, tripID, userID int64) error {
	if _, err := requireOwner(ctx, tm.trips, tripID, userID); err != nil {
		return err
	}
	if err := tm.trips.DeleteTrip(ctx, tripID); err != nil {
		return storeError(err, "Trip", tripID)
	}
	logger.GetLogger().Infow("Trip deleted", "tripId", tripID, "userId", userID)
	return nil
}

func (tm *TripModel) CountTrips(ctx context.Context) (int64, error) {
	count, err := tm.trips.CountTrips(ctx)
	if err != nil {
		return 0, errors.NewDatabaseError(err)
	}
	return count, nil
}

func (tm *TripModel) ListMembers(ctx context.Context, tripID, userID int64) ([]types.Member, error) {
	if _, err := requireMember(ctx, tm.trips, tripID, userID); err != nil {
		return nil, err
	}
	members, err := tm.trips.ListMembers(ctx, tripID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return members, nil
}
