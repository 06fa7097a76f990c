package service_test

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/repo"
)

// Hand-written test doubles, one per repo interface. Each method is a
// function field — set only the ones your test needs; an unset method that
// gets called panics, which points straight at the missing expectation.

type mockVehicleRepo struct {
	create           func(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	getByID          func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	getForUpdate     func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	listByOwner      func(ctx context.Context, ownerID uuid.UUID) ([]domain.Vehicle, error)
	applyLedgerDelta func(ctx context.Context, id uuid.UUID, deltaOdometer, deltaTank decimal.Decimal) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, vehicle)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockVehicleRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Vehicle, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockVehicleRepo) ApplyLedgerDelta(ctx context.Context, id uuid.UUID, deltaOdometer, deltaTank decimal.Decimal) error {
	return m.applyLedgerDelta(ctx, id, deltaOdometer, deltaTank)
}

var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

type mockTripRepo struct {
	create        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID       func(ctx context.Context, vehicleID, tripID uuid.UUID) (domain.Trip, error)
	listByVehicle func(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update        func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete        func(ctx context.Context, vehicleID, tripID uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, vehicleID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, vehicleID, tripID)
}
func (m *mockTripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByVehicle(ctx, vehicleID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, vehicleID, tripID uuid.UUID) error {
	return m.delete(ctx, vehicleID, tripID)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockFuelingRepo struct {
	create        func(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error)
	getByID       func(ctx context.Context, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error)
	listByVehicle func(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error)
	update        func(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error)
	delete        func(ctx context.Context, vehicleID, fuelingID uuid.UUID) error
}

func (m *mockFuelingRepo) Create(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error) {
	return m.create(ctx, fueling)
}
func (m *mockFuelingRepo) GetByID(ctx context.Context, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error) {
	return m.getByID(ctx, vehicleID, fuelingID)
}
func (m *mockFuelingRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	return m.listByVehicle(ctx, vehicleID, p)
}
func (m *mockFuelingRepo) Update(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error) {
	return m.update(ctx, fueling)
}
func (m *mockFuelingRepo) Delete(ctx context.Context, vehicleID, fuelingID uuid.UUID) error {
	return m.delete(ctx, vehicleID, fuelingID)
}

var _ repo.FuelingRepo = (*mockFuelingRepo)(nil)

type mockFuelTypeRepo struct {
	getByID func(ctx context.Context, id uuid.UUID) (domain.FuelType, error)
	list    func(ctx context.Context) ([]domain.FuelType, error)
}

func (m *mockFuelTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.FuelType, error) {
	return m.getByID(ctx, id)
}
func (m *mockFuelTypeRepo) List(ctx context.Context) ([]domain.FuelType, error) {
	return m.list(ctx)
}

var _ repo.FuelTypeRepo = (*mockFuelTypeRepo)(nil)

type mockStationRepo struct {
	create       func(ctx context.Context, station domain.GasStation) (domain.GasStation, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.GasStation, error)
	list         func(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status domain.StationStatus) error
	applyChanges func(ctx context.Context, id uuid.UUID, changes domain.StationChanges) error
}

func (m *mockStationRepo) Create(ctx context.Context, station domain.GasStation) (domain.GasStation, error) {
	return m.create(ctx, station)
}
func (m *mockStationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.GasStation, error) {
	return m.getByID(ctx, id)
}
func (m *mockStationRepo) List(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error) {
	return m.list(ctx, status, p)
}
func (m *mockStationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StationStatus) error {
	return m.updateStatus(ctx, id, status)
}
func (m *mockStationRepo) ApplyChanges(ctx context.Context, id uuid.UUID, changes domain.StationChanges) error {
	return m.applyChanges(ctx, id, changes)
}

var _ repo.StationRepo = (*mockStationRepo)(nil)

type mockPriceRepo struct {
	create        func(ctx context.Context, price domain.StationPrice) (domain.StationPrice, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.StationPrice, error)
	latestActive  func(ctx context.Context, stationID, fuelTypeID uuid.UUID) (domain.StationPrice, error)
	listByStation func(ctx context.Context, stationID uuid.UUID) ([]domain.StationPrice, error)
	updateStatus  func(ctx context.Context, id uuid.UUID, status domain.PriceStatus) error
	applyChanges  func(ctx context.Context, id uuid.UUID, changes domain.PriceChanges) error
}

func (m *mockPriceRepo) Create(ctx context.Context, price domain.StationPrice) (domain.StationPrice, error) {
	return m.create(ctx, price)
}
func (m *mockPriceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.StationPrice, error) {
	return m.getByID(ctx, id)
}
func (m *mockPriceRepo) LatestActive(ctx context.Context, stationID, fuelTypeID uuid.UUID) (domain.StationPrice, error) {
	return m.latestActive(ctx, stationID, fuelTypeID)
}
func (m *mockPriceRepo) ListByStation(ctx context.Context, stationID uuid.UUID) ([]domain.StationPrice, error) {
	return m.listByStation(ctx, stationID)
}
func (m *mockPriceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PriceStatus) error {
	return m.updateStatus(ctx, id, status)
}
func (m *mockPriceRepo) ApplyChanges(ctx context.Context, id uuid.UUID, changes domain.PriceChanges) error {
	return m.applyChanges(ctx, id, changes)
}

var _ repo.PriceRepo = (*mockPriceRepo)(nil)

type mockProposalRepo struct {
	create       func(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Proposal, error)
	getForUpdate func(ctx context.Context, id uuid.UUID) (domain.Proposal, error)
	list         func(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error)
	resolve      func(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, notes string) error
}

func (m *mockProposalRepo) Create(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	return m.create(ctx, proposal)
}
func (m *mockProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	return m.getByID(ctx, id)
}
func (m *mockProposalRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockProposalRepo) List(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error) {
	return m.list(ctx, status, p)
}
func (m *mockProposalRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, notes string) error {
	return m.resolve(ctx, id, status, notes)
}

var _ repo.ProposalRepo = (*mockProposalRepo)(nil)

type mockReviewRepo struct {
	upsert         func(ctx context.Context, review domain.Review) (domain.Review, error)
	tallyFor       func(ctx context.Context, proposalID uuid.UUID) (domain.Tally, error)
	listByProposal func(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error)
}

func (m *mockReviewRepo) Upsert(ctx context.Context, review domain.Review) (domain.Review, error) {
	return m.upsert(ctx, review)
}
func (m *mockReviewRepo) TallyFor(ctx context.Context, proposalID uuid.UUID) (domain.Tally, error) {
	return m.tallyFor(ctx, proposalID)
}
func (m *mockReviewRepo) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error) {
	return m.listByProposal(ctx, proposalID)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)

// fakeStore satisfies service.Store without a database: WithTx just invokes
// fn against the same repos, so "transactional" writes are observable
// directly in the mocks.
type fakeStore struct {
	repos *repo.Repos
}

func (s *fakeStore) WithTx(_ context.Context, fn func(r *repo.Repos) error) error {
	return fn(s.repos)
}

func (s *fakeStore) Repos() *repo.Repos { return s.repos }

// commitFailStore runs fn to completion and then reports a transaction
// failure, as if the final commit was lost.
type commitFailStore struct {
	repos *repo.Repos
	err   error
}

func (s *commitFailStore) WithTx(_ context.Context, fn func(r *repo.Repos) error) error {
	if err := fn(s.repos); err != nil {
		return err
	}
	return s.err
}

func (s *commitFailStore) Repos() *repo.Repos { return s.repos }

// allowAll authorizes every caller; denyAll rejects everyone.
type allowAll struct{}

func (allowAll) AuthorizeVehicle(context.Context, uuid.UUID, domain.Vehicle) error { return nil }

type denyAll struct{}

func (denyAll) AuthorizeVehicle(context.Context, uuid.UUID, domain.Vehicle) error {
	return fmt.Errorf("not yours: %w", domain.ErrAccessDenied)
}
