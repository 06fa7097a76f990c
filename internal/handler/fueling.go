package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/service"
)

// FuelingRequest is the body for creating or updating a fueling.
type FuelingRequest struct {
	Cost       decimal.Decimal `json:"cost"`
	FuelTypeID uuid.UUID       `json:"fuel_type_id"`
	Latitude   float64         `json:"latitude"`
	Longitude  float64         `json:"longitude"`
	// GasStationID links the fueling to a crowdsourced station. When the
	// station has an active price for the fuel type, that price wins over
	// PricePerLiter.
	GasStationID  *uuid.UUID       `json:"gas_station_id,omitempty"`
	PricePerLiter *decimal.Decimal `json:"price_per_liter,omitempty"`
}

// CreateFueling handles POST /vehicles/{vehicleID}/fuelings.
func (s *Server) CreateFueling(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	var req FuelingRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	fueling, err := s.ledger.CreateFueling(r.Context(), userID, vehicleID, service.FuelingInput{
		Cost:          req.Cost,
		FuelTypeID:    req.FuelTypeID,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		GasStationID:  req.GasStationID,
		PricePerLiter: req.PricePerLiter,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, fueling)
}

// UpdateFueling handles PUT /vehicles/{vehicleID}/fuelings/{fuelingID}.
// Editing a fueling re-derives the volume and adjusts the vehicle's tracked
// tank level by the difference.
func (s *Server) UpdateFueling(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	fuelingID, ok := s.pathUUID(w, r, "fuelingID")
	if !ok {
		return
	}
	var req FuelingRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	fueling, err := s.ledger.UpdateFueling(r.Context(), userID, vehicleID, fuelingID, service.FuelingInput{
		Cost:          req.Cost,
		FuelTypeID:    req.FuelTypeID,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		GasStationID:  req.GasStationID,
		PricePerLiter: req.PricePerLiter,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, fueling)
}

// ListFuelings handles GET /vehicles/{vehicleID}/fuelings.
func (s *Server) ListFuelings(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	params := queryPagination(r)
	fuelings, total, err := s.ledger.ListFuelings(r.Context(), userID, vehicleID, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse(fuelings, params, total))
}

// GetFueling handles GET /vehicles/{vehicleID}/fuelings/{fuelingID}.
func (s *Server) GetFueling(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	fuelingID, ok := s.pathUUID(w, r, "fuelingID")
	if !ok {
		return
	}
	fueling, err := s.ledger.GetFueling(r.Context(), userID, vehicleID, fuelingID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, fueling)
}

// DeleteFueling handles DELETE /vehicles/{vehicleID}/fuelings/{fuelingID}.
// Deleting a fueling reverses its effect on the vehicle's tracked tank level.
func (s *Server) DeleteFueling(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	fuelingID, ok := s.pathUUID(w, r, "fuelingID")
	if !ok {
		return
	}
	if err := s.ledger.DeleteFueling(r.Context(), userID, vehicleID, fuelingID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
