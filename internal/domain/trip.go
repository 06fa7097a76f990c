package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuelPrecision is the number of decimal places computed fuel quantities
// are rounded to (half-up).
const FuelPrecision = 5

// Trip is one driven leg logged against a vehicle. Creating a trip
// increments the vehicle odometer by Distance and decrements the tank by
// FuelConsumed; updates apply the delta, deletes reverse the effect.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicle_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Distance decimal.Decimal `json:"distance"`
	// ConsumptionRateUsed is the consumption rate applied for this trip —
	// either the vehicle default at logging time or a caller override.
	ConsumptionRateUsed decimal.Decimal `json:"consumption_rate_used"`
	// FuelConsumed = Distance / ConsumptionRateUsed, rounded to
	// FuelPrecision places half-up.
	FuelConsumed decimal.Decimal `json:"fuel_consumed"`

	// MomentAppFuelTank snapshots the vehicle's fuel tank level immediately
	// before this trip's effect was applied, for auditability.
	MomentAppFuelTank decimal.Decimal `json:"moment_app_fuel_tank"`

	Route string `json:"route,omitempty"`
	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComputeFuelConsumed returns distance / rate rounded to FuelPrecision
// places half-up. Returns ErrValidation when distance or rate is not
// positive, or when the result is not positive.
func ComputeFuelConsumed(distance, rate decimal.Decimal) (decimal.Decimal, error) {
	if distance.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: distance must be positive", ErrValidation)
	}
	if rate.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: consumption rate must be positive", ErrValidation)
	}
	consumed := distance.DivRound(rate, FuelPrecision)
	if consumed.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: computed fuel consumed must be positive", ErrValidation)
	}
	return consumed, nil
}
