package models

import (
	"context"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
	"github.com/NomadCrew/nomad-crew-planner/types"
)

// requireMember loads the trip and checks that userID owns it or holds an
// accepted invitation. Membership is read fresh on every call.
func requireMember(ctx context.Context, trips store.TripStore, tripID, userID int64) (*types.Trip, error) {
	trip, err := trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	if trip.OwnerID == userID {
		return trip, nil
	}

	ok, err := trips.IsMember(ctx, tripID, userID)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	if !ok {
		return nil, errors.NotTripMember(tripID, userID)
	}
	return trip, nil
}

// requireOwner loads the trip and checks that userID owns it.
func requireOwner(ctx context.Context, trips store.TripStore, tripID, userID int64) (*types.Trip, error) {
	trip, err := trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, storeError(err, "Trip", tripID)
	}
	if trip.OwnerID != userID {
		return nil, errors.NotTripOwner(tripID, userID)
	}
	return trip, nil
}
