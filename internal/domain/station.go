// Package domain contains the core data types for the fuelbook application.
// This package has no database or HTTP dependencies and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StationStatus is the lifecycle state of a crowdsourced gas station.
// Status is driven exclusively by proposal resolution, never by direct
// user mutation.
type StationStatus string

const (
	StationUnderReview StationStatus = "UNDER_REVIEW"
	StationActive      StationStatus = "ACTIVE"
	StationInactive    StationStatus = "INACTIVE"
	StationRejected    StationStatus = "REJECTED"
)

// GasStation is a community-submitted fuel station. New stations start in
// UNDER_REVIEW and become ACTIVE or REJECTED through the review workflow.
type GasStation struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Address   Address       `json:"address"`
	Status    StationStatus `json:"status"`
	CreatedBy uuid.UUID     `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Address is the normalized location of a station. Plain data — no
// normalization logic lives in this system.
type Address struct {
	Country    string `json:"country"`
	City       string `json:"city"`
	Street     string `json:"street,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// PriceStatus is the lifecycle state of a reported fuel price.
type PriceStatus string

const (
	PriceUnderReview PriceStatus = "UNDER_REVIEW"
	PriceActive      PriceStatus = "ACTIVE"
	PriceRejected    PriceStatus = "REJECTED"
	PriceOutdated    PriceStatus = "OUTDATED"
)

// StationPrice is one community-reported price for one fuel type at one
// station. A newer ACTIVE price for the same (station, fuel type) supersedes
// older ones: reads order by reported_at descending, so an older row is
// outdated by recency even if its status column lags.
type StationPrice struct {
	ID         uuid.UUID       `json:"id"`
	StationID  uuid.UUID       `json:"station_id"`
	FuelTypeID uuid.UUID       `json:"fuel_type_id"`
	Price      decimal.Decimal `json:"price"`
	ReportedAt time.Time       `json:"reported_at"`
	Status     PriceStatus     `json:"status"`
	ReportedBy uuid.UUID       `json:"reported_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FuelType is a read-only lookup row (e.g. "Diesel", "95 RON") seeded by
// migration.
type FuelType struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
