package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// VehicleService implements the plain CRUD surface for vehicles.
// The ledger state starts at the caller-supplied odometer/tank values and is
// only mutated through the LedgerService afterwards.
type VehicleService struct {
	store Store
	auth  VehicleAuthorizer
}

// NewVehicleService constructs a VehicleService.
func NewVehicleService(store Store, auth VehicleAuthorizer) *VehicleService {
	return &VehicleService{store: store, auth: auth}
}

// Create validates and persists a new vehicle owned by userID.
func (s *VehicleService) Create(ctx context.Context, userID uuid.UUID, vehicle domain.Vehicle) (domain.Vehicle, error) {
	if strings.TrimSpace(vehicle.Name) == "" {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w: name is required", domain.ErrValidation)
	}
	if vehicle.ConsumptionRate.Sign() <= 0 {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w: consumption rate must be positive", domain.ErrValidation)
	}
	if vehicle.AppOdometer.Sign() < 0 || vehicle.AppFuelTank.Sign() < 0 {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w: odometer and fuel tank must not be negative", domain.ErrValidation)
	}

	vehicle.OwnerID = userID
	created, err := s.store.Repos().Vehicles.Create(ctx, vehicle)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	return created, nil
}

// Get returns a vehicle after an access check.
func (s *VehicleService) Get(ctx context.Context, userID, vehicleID uuid.UUID) (domain.Vehicle, error) {
	vehicle, err := s.store.Repos().Vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Get: %w", err)
	}
	if err := s.auth.AuthorizeVehicle(ctx, userID, vehicle); err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Get: %w", err)
	}
	return vehicle, nil
}

// ListMine returns the caller's vehicles, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *VehicleService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Vehicle, error) {
	vehicles, err := s.store.Repos().Vehicles.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.ListMine: %w", err)
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, nil
}
