package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// StationWithPrices is the read shape for the station map: a station plus
// its reported prices, most recent first.
type StationWithPrices struct {
	Station domain.GasStation     `json:"station"`
	Prices  []domain.StationPrice `json:"prices"`
}

// StationService is the read surface for the crowdsourced station map.
// All writes go through the ProposalService.
type StationService struct {
	store Store
}

// NewStationService constructs a StationService.
func NewStationService(store Store) *StationService {
	return &StationService{store: store}
}

// Get returns a station and its reported prices.
func (s *StationService) Get(ctx context.Context, stationID uuid.UUID) (StationWithPrices, error) {
	station, err := s.store.Repos().Stations.GetByID(ctx, stationID)
	if err != nil {
		return StationWithPrices{}, fmt.Errorf("service.StationService.Get: %w", err)
	}
	prices, err := s.store.Repos().Prices.ListByStation(ctx, stationID)
	if err != nil {
		return StationWithPrices{}, fmt.Errorf("service.StationService.Get: %w", err)
	}
	if prices == nil {
		prices = []domain.StationPrice{}
	}
	return StationWithPrices{Station: station, Prices: prices}, nil
}

// List returns stations filtered by optional status, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *StationService) List(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error) {
	stations, total, err := s.store.Repos().Stations.List(ctx, status, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.StationService.List: %w", err)
	}
	if stations == nil {
		stations = []domain.GasStation{}
	}
	return stations, total, nil
}

// FuelTypes returns the fuel type lookup table.
func (s *StationService) FuelTypes(ctx context.Context) ([]domain.FuelType, error) {
	types, err := s.store.Repos().FuelTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.StationService.FuelTypes: %w", err)
	}
	if types == nil {
		types = []domain.FuelType{}
	}
	return types, nil
}
