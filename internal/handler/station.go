package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/service"
)

// CreateStationRequest is the body for POST /stations.
type CreateStationRequest struct {
	Name      string               `json:"name"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Address   domain.Address       `json:"address"`
	Prices    []CreatePriceRequest `json:"prices,omitempty"`
	Reason    string               `json:"reason,omitempty"`
}

// CreatePriceRequest is one (fuel type, price) pair.
type CreatePriceRequest struct {
	FuelTypeID string          `json:"fuel_type_id"`
	Price      decimal.Decimal `json:"price"`
}

// CreateStation handles POST /stations: propose a new station (plus initial
// prices) for community review.
func (s *Server) CreateStation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	var req CreateStationRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	draft := service.StationDraft{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Address:   req.Address,
		Reason:    req.Reason,
	}
	for _, p := range req.Prices {
		fuelTypeID, err := parseUUIDField(p.FuelTypeID)
		if err != nil {
			s.respondBadRequest(w, "invalid fuel_type_id")
			return
		}
		draft.InitialPrices = append(draft.InitialPrices, service.PriceDraft{FuelTypeID: fuelTypeID, Price: p.Price})
	}

	result, err := s.proposals.ProposeStation(r.Context(), userID, draft)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

// ListStations handles GET /stations. Supports ?status= plus pagination.
func (s *Server) ListStations(w http.ResponseWriter, r *http.Request) {
	var status *domain.StationStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.StationStatus(v)
		status = &st
	}
	params := queryPagination(r)

	stations, total, err := s.stations.List(r.Context(), status, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse(stations, params, total))
}

// GetStation handles GET /stations/{stationID}.
func (s *Server) GetStation(w http.ResponseWriter, r *http.Request) {
	stationID, ok := s.pathUUID(w, r, "stationID")
	if !ok {
		return
	}
	result, err := s.stations.Get(r.Context(), stationID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// ReportPriceRequest is the body for POST /stations/{stationID}/prices.
type ReportPriceRequest struct {
	FuelTypeID string          `json:"fuel_type_id"`
	Price      decimal.Decimal `json:"price"`
	Reason     string          `json:"reason,omitempty"`
}

// ReportPrice handles POST /stations/{stationID}/prices: report a price for
// community review.
func (s *Server) ReportPrice(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	stationID, ok := s.pathUUID(w, r, "stationID")
	if !ok {
		return
	}
	var req ReportPriceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	fuelTypeID, err := parseUUIDField(req.FuelTypeID)
	if err != nil {
		s.respondBadRequest(w, "invalid fuel_type_id")
		return
	}

	price, err := s.proposals.ReportPrice(r.Context(), userID, stationID, fuelTypeID, req.Price, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, price)
}

// ProposeStationEditRequest is the body for POST /stations/{stationID}/edits.
// Only the provided fields are part of the proposed change set.
type ProposeStationEditRequest struct {
	Changes domain.StationChanges `json:"changes"`
	Reason  string                `json:"reason"`
}

// ProposeStationEdit handles POST /stations/{stationID}/edits.
func (s *Server) ProposeStationEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	stationID, ok := s.pathUUID(w, r, "stationID")
	if !ok {
		return
	}
	var req ProposeStationEditRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	proposal, err := s.proposals.ProposeStationEdit(r.Context(), userID, stationID, req.Changes, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, proposal)
}

// ProposePriceEditRequest is the body for POST /prices/{priceID}/edits.
type ProposePriceEditRequest struct {
	Changes domain.PriceChanges `json:"changes"`
	Reason  string              `json:"reason"`
}

// ProposePriceEdit handles POST /prices/{priceID}/edits.
func (s *Server) ProposePriceEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	priceID, ok := s.pathUUID(w, r, "priceID")
	if !ok {
		return
	}
	var req ProposePriceEditRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	proposal, err := s.proposals.ProposePriceEdit(r.Context(), userID, priceID, req.Changes, req.Reason)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, proposal)
}

// ListFuelTypes handles GET /fuel-types.
func (s *Server) ListFuelTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.stations.FuelTypes(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, types)
}
