package models

import (
	stderrors "errors"

	"github.com/NomadCrew/nomad-crew-planner/errors"
	"github.com/NomadCrew/nomad-crew-planner/internal/store"
)

// storeError translates a store failure into an AppError. Missing rows
// become NotFound for entity; anything else is a sanitised database error.
func storeError(err error, entity string, id interface{}) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.NotFound(entity, id)
	}
	return errors.NewDatabaseError(err)
}
