package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle is the long-lived aggregate the ledger mutates. AppOdometer and
// AppFuelTank are the tracked ledger state: every trip and fueling applies a
// delta to them inside the same transaction that writes the event row.
type Vehicle struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
	Plate   string    `json:"plate,omitempty"`

	// ConsumptionRate is the vehicle's default fuel consumption in
	// distance units per volume unit, used when a trip does not override it.
	ConsumptionRate decimal.Decimal `json:"consumption_rate"`

	// AppOdometer is the cumulative distance tracked by the app.
	AppOdometer decimal.Decimal `json:"app_odometer"`
	// AppFuelTank is the current fuel level tracked by the app.
	AppFuelTank decimal.Decimal `json:"app_fuel_tank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
