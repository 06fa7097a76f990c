package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/service"
)

// TripRequest is the body for creating and updating trips.
type TripRequest struct {
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Distance  decimal.Decimal `json:"distance"`
	// ConsumptionRate overrides the vehicle's default rate when present.
	ConsumptionRate *decimal.Decimal `json:"consumption_rate,omitempty"`
	Route           string           `json:"route,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

func (req TripRequest) toInput() service.TripInput {
	return service.TripInput{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Distance:        req.Distance,
		ConsumptionRate: req.ConsumptionRate,
		Route:           req.Route,
		Notes:           req.Notes,
	}
}

// CreateTrip handles POST /vehicles/{vehicleID}/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	var req TripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	trip, err := s.ledger.CreateTrip(r.Context(), userID, vehicleID, req.toInput())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, trip)
}

// ListTrips handles GET /vehicles/{vehicleID}/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	params := queryPagination(r)
	trips, total, err := s.ledger.ListTrips(r.Context(), userID, vehicleID, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse(trips, params, total))
}

// GetTrip handles GET /vehicles/{vehicleID}/trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	trip, err := s.ledger.GetTrip(r.Context(), userID, vehicleID, tripID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PUT /vehicles/{vehicleID}/trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req TripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	trip, err := s.ledger.UpdateTrip(r.Context(), userID, vehicleID, tripID, req.toInput())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, trip)
}

// DeleteTrip handles DELETE /vehicles/{vehicleID}/trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, vehicleID, ok := s.vehicleScope(w, r)
	if !ok {
		return
	}
	tripID, ok := s.pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	if err := s.ledger.DeleteTrip(r.Context(), userID, vehicleID, tripID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// vehicleScope extracts the authenticated user and the vehicleID path
// parameter shared by all nested ledger routes.
func (s *Server) vehicleScope(w http.ResponseWriter, r *http.Request) (userID, vehicleID uuid.UUID, ok bool) {
	userID, ok = s.currentUser(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	vehicleID, ok = s.pathUUID(w, r, "vehicleID")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return userID, vehicleID, true
}
