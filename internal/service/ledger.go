package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/repo"
)

// TripInput is the caller-supplied part of a trip event.
type TripInput struct {
	StartTime time.Time
	EndTime   time.Time
	Distance  decimal.Decimal
	// ConsumptionRate overrides the vehicle's default rate when non-nil.
	ConsumptionRate *decimal.Decimal
	Route           string
	Notes           string
}

// FuelingInput is the caller-supplied part of a fueling event.
type FuelingInput struct {
	Cost       decimal.Decimal
	FuelTypeID uuid.UUID
	Latitude   float64
	Longitude  float64
	// GasStationID links the fueling to a crowdsourced station; when set,
	// the station's latest active price for the fuel type wins over
	// PricePerLiter.
	GasStationID *uuid.UUID
	// PricePerLiter is mandatory when GasStationID is nil and advisory
	// otherwise (used only when the station has no active price yet).
	PricePerLiter *decimal.Decimal
}

// LedgerService keeps each vehicle's odometer and fuel tank consistent with
// its trip/fueling history. Every operation runs in one transaction that
// locks the vehicle row, writes the event, and applies a delta (never an
// overwrite) to the vehicle state. Event rows snapshot the tank level seen
// before their own effect, for auditability.
type LedgerService struct {
	store Store
	auth  VehicleAuthorizer
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(store Store, auth VehicleAuthorizer) *LedgerService {
	return &LedgerService{store: store, auth: auth}
}

// CreateTrip logs a trip: fuelConsumed = distance / rate (5 decimal places,
// half-up), odometer += distance, tank -= fuelConsumed.
// Returns domain.ErrValidation for non-positive distance/rate,
// domain.ErrNotFound for an unknown vehicle, domain.ErrAccessDenied when the
// caller may not touch the vehicle.
func (s *LedgerService) CreateTrip(ctx context.Context, userID, vehicleID uuid.UUID, in TripInput) (domain.Trip, error) {
	if err := validateTripTimes(in); err != nil {
		return domain.Trip{}, fmt.Errorf("service.LedgerService.CreateTrip: %w", err)
	}

	var created domain.Trip
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		vehicle, err := s.lockVehicle(ctx, r, userID, vehicleID)
		if err != nil {
			return err
		}

		rate := vehicle.ConsumptionRate
		if in.ConsumptionRate != nil {
			rate = *in.ConsumptionRate
		}
		fuelConsumed, err := domain.ComputeFuelConsumed(in.Distance, rate)
		if err != nil {
			return err
		}

		created, err = r.Trips.Create(ctx, domain.Trip{
			VehicleID:           vehicleID,
			StartTime:           in.StartTime,
			EndTime:             in.EndTime,
			Distance:            in.Distance,
			ConsumptionRateUsed: rate,
			FuelConsumed:        fuelConsumed,
			MomentAppFuelTank:   vehicle.AppFuelTank,
			Route:               in.Route,
			Notes:               in.Notes,
		})
		if err != nil {
			return err
		}
		return r.Vehicles.ApplyLedgerDelta(ctx, vehicleID, in.Distance, fuelConsumed.Neg())
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.LedgerService.CreateTrip: %w", err)
	}
	return created, nil
}

// UpdateTrip recomputes fuelConsumed from the new distance/rate and applies
// only the delta against the old values to the vehicle, so edits keep the
// ledger consistent. The original tank snapshot is preserved.
func (s *LedgerService) UpdateTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID, in TripInput) (domain.Trip, error) {
	if err := validateTripTimes(in); err != nil {
		return domain.Trip{}, fmt.Errorf("service.LedgerService.UpdateTrip: %w", err)
	}

	var updated domain.Trip
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		vehicle, err := s.lockVehicle(ctx, r, userID, vehicleID)
		if err != nil {
			return err
		}

		old, err := r.Trips.GetByID(ctx, vehicleID, tripID)
		if err != nil {
			return err
		}

		rate := vehicle.ConsumptionRate
		if in.ConsumptionRate != nil {
			rate = *in.ConsumptionRate
		}
		newFuel, err := domain.ComputeFuelConsumed(in.Distance, rate)
		if err != nil {
			return err
		}

		deltaDistance := in.Distance.Sub(old.Distance)
		deltaFuel := newFuel.Sub(old.FuelConsumed)

		updated, err = r.Trips.Update(ctx, domain.Trip{
			ID:                  tripID,
			VehicleID:           vehicleID,
			StartTime:           in.StartTime,
			EndTime:             in.EndTime,
			Distance:            in.Distance,
			ConsumptionRateUsed: rate,
			FuelConsumed:        newFuel,
			Route:               in.Route,
			Notes:               in.Notes,
		})
		if err != nil {
			return err
		}
		return r.Vehicles.ApplyLedgerDelta(ctx, vehicleID, deltaDistance, deltaFuel.Neg())
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.LedgerService.UpdateTrip: %w", err)
	}
	return updated, nil
}

// DeleteTrip removes a trip and reverses its original effect:
// odometer -= distance, tank += fuelConsumed.
func (s *LedgerService) DeleteTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		if _, err := s.lockVehicle(ctx, r, userID, vehicleID); err != nil {
			return err
		}
		trip, err := r.Trips.GetByID(ctx, vehicleID, tripID)
		if err != nil {
			return err
		}
		if err := r.Trips.Delete(ctx, vehicleID, tripID); err != nil {
			return err
		}
		return r.Vehicles.ApplyLedgerDelta(ctx, vehicleID, trip.Distance.Neg(), trip.FuelConsumed)
	})
	if err != nil {
		return fmt.Errorf("service.LedgerService.DeleteTrip: %w", err)
	}
	return nil
}

// CreateFueling logs a refuel: volume = cost / pricePerLiter (5 decimal
// places, half-up), tank += volume. The price comes from the linked
// station's latest active price for the fuel type when one exists, otherwise
// from caller input — which is mandatory when no station is linked.
func (s *LedgerService) CreateFueling(ctx context.Context, userID, vehicleID uuid.UUID, in FuelingInput) (domain.Fueling, error) {
	if err := validateFuelingInput(in); err != nil {
		return domain.Fueling{}, fmt.Errorf("service.LedgerService.CreateFueling: %w", err)
	}

	var created domain.Fueling
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		vehicle, err := s.lockVehicle(ctx, r, userID, vehicleID)
		if err != nil {
			return err
		}
		if _, err := r.FuelTypes.GetByID(ctx, in.FuelTypeID); err != nil {
			return err
		}

		price, err := s.resolvePricePerLiter(ctx, r, in)
		if err != nil {
			return err
		}
		volume, err := domain.ComputeVolume(in.Cost, price)
		if err != nil {
			return err
		}

		created, err = r.Fuelings.Create(ctx, domain.Fueling{
			VehicleID:         vehicleID,
			Cost:              in.Cost,
			FuelTypeID:        in.FuelTypeID,
			PricePerLiter:     price,
			Volume:            volume,
			Latitude:          in.Latitude,
			Longitude:         in.Longitude,
			GasStationID:      in.GasStationID,
			MomentAppFuelTank: vehicle.AppFuelTank,
		})
		if err != nil {
			return err
		}
		return r.Vehicles.ApplyLedgerDelta(ctx, vehicleID, decimal.Zero, volume)
	})
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("service.LedgerService.CreateFueling: %w", err)
	}
	return created, nil
}

// UpdateFueling recomputes the volume from the new cost/price and applies
// only the tank delta against the old volume, so edits keep the ledger
// consistent. The original tank snapshot is preserved.
func (s *LedgerService) UpdateFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID, in FuelingInput) (domain.Fueling, error) {
	if err := validateFuelingInput(in); err != nil {
		return domain.Fueling{}, fmt.Errorf("service.LedgerService.UpdateFueling: %w", err)
	}

	var updated domain.Fueling
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		if _, err := s.lockVehicle(ctx, r, userID, vehicleID); err != nil {
			return err
		}

		old, err := r.Fuelings.GetByID(ctx, vehicleID, fuelingID)
		if err != nil {
			return err
		}
		if _, err := r.FuelTypes.GetByID(ctx, in.FuelTypeID); err != nil {
			return err
		}

		price, err := s.resolvePricePerLiter(ctx, r, in)
		if err != nil {
			return err
		}
		newVolume, err := domain.ComputeVolume(in.Cost, price)
		if err != nil {
			return err
		}

		updated, err = r.Fuelings.Update(ctx, domain.Fueling{
			ID:            fuelingID,
			VehicleID:     vehicleID,
			Cost:          in.Cost,
			FuelTypeID:    in.FuelTypeID,
			PricePerLiter: price,
			Volume:        newVolume,
			Latitude:      in.Latitude,
			Longitude:     in.Longitude,
			GasStationID:  in.GasStationID,
		})
		if err != nil {
			return err
		}
		return r.Vehicles.ApplyLedgerDelta(ctx, vehicleID, decimal.Zero, newVolume.Sub(old.Volume))
	})
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("service.LedgerService.UpdateFueling: %w", err)
	}
	return updated, nil
}

// DeleteFueling removes a fueling and reverses its tank increment,
// symmetric with trip deletion.
func (s *LedgerService) DeleteFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) error {
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		if _, err := s.lockVehicle(ctx, r, userID, vehicleID); err != nil {
			return err
		}
		fueling, err := r.Fuelings.GetByID(ctx, vehicleID, fuelingID)
		if err != nil {
			return err
		}
		if err := r.Fuelings.Delete(ctx, vehicleID, fuelingID); err != nil {
			return err
		}
		return r.Vehicles.ApplyLedgerDelta(ctx, vehicleID, decimal.Zero, fueling.Volume.Neg())
	})
	if err != nil {
		return fmt.Errorf("service.LedgerService.DeleteFueling: %w", err)
	}
	return nil
}

// GetTrip returns a single trip after an ownership check.
func (s *LedgerService) GetTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID) (domain.Trip, error) {
	if err := s.authorize(ctx, userID, vehicleID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.LedgerService.GetTrip: %w", err)
	}
	trip, err := s.store.Repos().Trips.GetByID(ctx, vehicleID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.LedgerService.GetTrip: %w", err)
	}
	return trip, nil
}

// ListTrips returns a vehicle's trips, most recent start first.
func (s *LedgerService) ListTrips(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if err := s.authorize(ctx, userID, vehicleID); err != nil {
		return nil, 0, fmt.Errorf("service.LedgerService.ListTrips: %w", err)
	}
	trips, total, err := s.store.Repos().Trips.ListByVehicle(ctx, vehicleID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LedgerService.ListTrips: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// GetFueling returns a single fueling after an ownership check.
func (s *LedgerService) GetFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error) {
	if err := s.authorize(ctx, userID, vehicleID); err != nil {
		return domain.Fueling{}, fmt.Errorf("service.LedgerService.GetFueling: %w", err)
	}
	fueling, err := s.store.Repos().Fuelings.GetByID(ctx, vehicleID, fuelingID)
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("service.LedgerService.GetFueling: %w", err)
	}
	return fueling, nil
}

// ListFuelings returns a vehicle's fuelings, most recent first.
func (s *LedgerService) ListFuelings(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	if err := s.authorize(ctx, userID, vehicleID); err != nil {
		return nil, 0, fmt.Errorf("service.LedgerService.ListFuelings: %w", err)
	}
	fuelings, total, err := s.store.Repos().Fuelings.ListByVehicle(ctx, vehicleID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.LedgerService.ListFuelings: %w", err)
	}
	if fuelings == nil {
		fuelings = []domain.Fueling{}
	}
	return fuelings, total, nil
}

// lockVehicle takes the per-vehicle row lock and checks authorization,
// in that order: the lock serializes concurrent ledger events, the auth
// check gates every mutation.
func (s *LedgerService) lockVehicle(ctx context.Context, r *repo.Repos, userID, vehicleID uuid.UUID) (domain.Vehicle, error) {
	vehicle, err := r.Vehicles.GetForUpdate(ctx, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if err := s.auth.AuthorizeVehicle(ctx, userID, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

// authorize checks vehicle access for read operations (no lock).
func (s *LedgerService) authorize(ctx context.Context, userID, vehicleID uuid.UUID) error {
	vehicle, err := s.store.Repos().Vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	return s.auth.AuthorizeVehicle(ctx, userID, vehicle)
}

// resolvePricePerLiter picks the price used to derive the volume.
func (s *LedgerService) resolvePricePerLiter(ctx context.Context, r *repo.Repos, in FuelingInput) (decimal.Decimal, error) {
	if in.GasStationID != nil {
		if _, err := r.Stations.GetByID(ctx, *in.GasStationID); err != nil {
			return decimal.Decimal{}, err
		}
		latest, err := r.Prices.LatestActive(ctx, *in.GasStationID, in.FuelTypeID)
		if err == nil {
			return latest.Price, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return decimal.Decimal{}, err
		}
		// No active price at the station yet — fall back to caller input.
	}
	if in.PricePerLiter == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price_per_liter is required when no station price is available", domain.ErrValidation)
	}
	return *in.PricePerLiter, nil
}

// validateTripTimes rejects a trip without both timestamps or whose end
// precedes its start.
func validateTripTimes(in TripInput) error {
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", domain.ErrValidation)
	}
	if in.EndTime.Before(in.StartTime) {
		return fmt.Errorf("%w: end_time must not be before start_time", domain.ErrValidation)
	}
	return nil
}

// validateFuelingInput rejects a fueling whose cost is not positive,
// matching the column constraint so the error surfaces as a 400.
func validateFuelingInput(in FuelingInput) error {
	if in.Cost.Sign() <= 0 {
		return fmt.Errorf("%w: cost must be positive", domain.ErrValidation)
	}
	return nil
}
