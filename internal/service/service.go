// Package service contains the business logic for the fuelbook API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/repo"
)

// Store is the persistence entry point services depend on. *repo.Store
// satisfies it; unit tests supply a fake whose WithTx simply invokes fn
// with mock repos.
type Store interface {
	// WithTx runs fn inside a single transaction: all writes commit or none.
	WithTx(ctx context.Context, fn func(r *repo.Repos) error) error
	// Repos returns repositories for non-transactional reads.
	Repos() *repo.Repos
}

// VehicleAuthorizer decides whether a user may mutate a vehicle's ledger.
// The auth package provides the production implementation (owner check plus
// role permissions); the interface lives here, in the consumer package.
type VehicleAuthorizer interface {
	// AuthorizeVehicle returns domain.ErrAccessDenied when userID may not
	// operate on the vehicle.
	AuthorizeVehicle(ctx context.Context, userID uuid.UUID, vehicle domain.Vehicle) error
}
