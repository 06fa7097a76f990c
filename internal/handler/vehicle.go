package handler

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// VehicleRequest is the body for POST /vehicles.
type VehicleRequest struct {
	Name            string          `json:"name"`
	Plate           string          `json:"plate,omitempty"`
	ConsumptionRate decimal.Decimal `json:"consumption_rate"`
	AppOdometer     decimal.Decimal `json:"app_odometer"`
	AppFuelTank     decimal.Decimal `json:"app_fuel_tank"`
}

// CreateVehicle handles POST /vehicles.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req VehicleRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.respondBadRequest(w, "name is required")
		return
	}

	vehicle, err := s.vehicles.Create(r.Context(), userID, domain.Vehicle{
		Name:            strings.TrimSpace(req.Name),
		Plate:           strings.TrimSpace(req.Plate),
		ConsumptionRate: req.ConsumptionRate,
		AppOdometer:     req.AppOdometer,
		AppFuelTank:     req.AppFuelTank,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, vehicle)
}

// ListVehicles handles GET /vehicles and returns the caller's vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	vehicles, err := s.vehicles.ListMine(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, vehicles)
}

// GetVehicle handles GET /vehicles/{vehicleID}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	vehicleID, ok := s.pathUUID(w, r, "vehicleID")
	if !ok {
		return
	}
	vehicle, err := s.vehicles.Get(r.Context(), userID, vehicleID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, vehicle)
}
