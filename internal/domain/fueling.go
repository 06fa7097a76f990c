package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fueling is one refuel event logged against a vehicle. Creating a fueling
// increments the vehicle tank by Volume; deleting it reverses the increment.
type Fueling struct {
	ID        uuid.UUID `json:"id"`
	VehicleID uuid.UUID `json:"vehicle_id"`

	Cost       decimal.Decimal `json:"cost"`
	FuelTypeID uuid.UUID       `json:"fuel_type_id"`
	// PricePerLiter is the price used to derive Volume. It comes from the
	// linked station's latest active price when GasStationID is set,
	// otherwise from caller input (mandatory in that case).
	PricePerLiter decimal.Decimal `json:"price_per_liter"`
	// Volume = Cost / PricePerLiter, rounded to FuelPrecision places half-up.
	Volume decimal.Decimal `json:"volume"`

	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	GasStationID *uuid.UUID `json:"gas_station_id,omitempty"`

	// MomentAppFuelTank snapshots the vehicle's fuel tank level immediately
	// before this fueling's effect was applied.
	MomentAppFuelTank decimal.Decimal `json:"moment_app_fuel_tank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComputeVolume returns cost / pricePerLiter rounded to FuelPrecision places
// half-up. Returns ErrValidation when the price is not positive or the cost
// is negative.
func ComputeVolume(cost, pricePerLiter decimal.Decimal) (decimal.Decimal, error) {
	if pricePerLiter.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: price per liter must be positive", ErrValidation)
	}
	if cost.Sign() < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: cost must not be negative", ErrValidation)
	}
	return cost.DivRound(pricePerLiter, FuelPrecision), nil
}
