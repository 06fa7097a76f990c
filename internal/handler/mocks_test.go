package handler_test

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/auth"
	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/handler"
	"github.com/mpetkov/fuelbook/backend/internal/service"
)

// Function-field mocks for the servicer interfaces. Set only the methods a
// test needs; an unexpected call panics and names the hole.

type mockProposalServicer struct {
	proposeStation     func(ctx context.Context, proposerID uuid.UUID, draft service.StationDraft) (service.StationProposalResult, error)
	reportPrice        func(ctx context.Context, reporterID, stationID, fuelTypeID uuid.UUID, price decimal.Decimal, reason string) (domain.StationPrice, error)
	proposeStationEdit func(ctx context.Context, proposerID, stationID uuid.UUID, changes domain.StationChanges, reason string) (domain.Proposal, error)
	proposePriceEdit   func(ctx context.Context, proposerID, priceID uuid.UUID, changes domain.PriceChanges, reason string) (domain.Proposal, error)
	get                func(ctx context.Context, id uuid.UUID) (domain.Proposal, error)
	list               func(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error)
}

func (m *mockProposalServicer) ProposeStation(ctx context.Context, proposerID uuid.UUID, draft service.StationDraft) (service.StationProposalResult, error) {
	return m.proposeStation(ctx, proposerID, draft)
}
func (m *mockProposalServicer) ReportPrice(ctx context.Context, reporterID, stationID, fuelTypeID uuid.UUID, price decimal.Decimal, reason string) (domain.StationPrice, error) {
	return m.reportPrice(ctx, reporterID, stationID, fuelTypeID, price, reason)
}
func (m *mockProposalServicer) ProposeStationEdit(ctx context.Context, proposerID, stationID uuid.UUID, changes domain.StationChanges, reason string) (domain.Proposal, error) {
	return m.proposeStationEdit(ctx, proposerID, stationID, changes, reason)
}
func (m *mockProposalServicer) ProposePriceEdit(ctx context.Context, proposerID, priceID uuid.UUID, changes domain.PriceChanges, reason string) (domain.Proposal, error) {
	return m.proposePriceEdit(ctx, proposerID, priceID, changes, reason)
}
func (m *mockProposalServicer) Get(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	return m.get(ctx, id)
}
func (m *mockProposalServicer) List(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error) {
	return m.list(ctx, status, p)
}

var _ handler.ProposalServicer = (*mockProposalServicer)(nil)

type mockReviewServicer struct {
	castVote  func(ctx context.Context, reviewerID, proposalID uuid.UUID, vote domain.Vote, comment string) (domain.Review, error)
	listVotes func(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error)
}

func (m *mockReviewServicer) CastVote(ctx context.Context, reviewerID, proposalID uuid.UUID, vote domain.Vote, comment string) (domain.Review, error) {
	return m.castVote(ctx, reviewerID, proposalID, vote, comment)
}
func (m *mockReviewServicer) ListVotes(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error) {
	return m.listVotes(ctx, proposalID)
}

var _ handler.ReviewServicer = (*mockReviewServicer)(nil)

type mockLedgerServicer struct {
	createTrip    func(ctx context.Context, userID, vehicleID uuid.UUID, in service.TripInput) (domain.Trip, error)
	updateTrip    func(ctx context.Context, userID, vehicleID, tripID uuid.UUID, in service.TripInput) (domain.Trip, error)
	deleteTrip    func(ctx context.Context, userID, vehicleID, tripID uuid.UUID) error
	getTrip       func(ctx context.Context, userID, vehicleID, tripID uuid.UUID) (domain.Trip, error)
	listTrips     func(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	createFueling func(ctx context.Context, userID, vehicleID uuid.UUID, in service.FuelingInput) (domain.Fueling, error)
	updateFueling func(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID, in service.FuelingInput) (domain.Fueling, error)
	deleteFueling func(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) error
	getFueling    func(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error)
	listFuelings  func(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error)
}

func (m *mockLedgerServicer) CreateTrip(ctx context.Context, userID, vehicleID uuid.UUID, in service.TripInput) (domain.Trip, error) {
	return m.createTrip(ctx, userID, vehicleID, in)
}
func (m *mockLedgerServicer) UpdateTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID, in service.TripInput) (domain.Trip, error) {
	return m.updateTrip(ctx, userID, vehicleID, tripID, in)
}
func (m *mockLedgerServicer) DeleteTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID) error {
	return m.deleteTrip(ctx, userID, vehicleID, tripID)
}
func (m *mockLedgerServicer) GetTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getTrip(ctx, userID, vehicleID, tripID)
}
func (m *mockLedgerServicer) ListTrips(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listTrips(ctx, userID, vehicleID, p)
}
func (m *mockLedgerServicer) CreateFueling(ctx context.Context, userID, vehicleID uuid.UUID, in service.FuelingInput) (domain.Fueling, error) {
	return m.createFueling(ctx, userID, vehicleID, in)
}
func (m *mockLedgerServicer) UpdateFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID, in service.FuelingInput) (domain.Fueling, error) {
	return m.updateFueling(ctx, userID, vehicleID, fuelingID, in)
}
func (m *mockLedgerServicer) DeleteFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) error {
	return m.deleteFueling(ctx, userID, vehicleID, fuelingID)
}
func (m *mockLedgerServicer) GetFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error) {
	return m.getFueling(ctx, userID, vehicleID, fuelingID)
}
func (m *mockLedgerServicer) ListFuelings(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	return m.listFuelings(ctx, userID, vehicleID, p)
}

var _ handler.LedgerServicer = (*mockLedgerServicer)(nil)

type mockVehicleServicer struct {
	create   func(ctx context.Context, userID uuid.UUID, vehicle domain.Vehicle) (domain.Vehicle, error)
	get      func(ctx context.Context, userID, vehicleID uuid.UUID) (domain.Vehicle, error)
	listMine func(ctx context.Context, userID uuid.UUID) ([]domain.Vehicle, error)
}

func (m *mockVehicleServicer) Create(ctx context.Context, userID uuid.UUID, vehicle domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, userID, vehicle)
}
func (m *mockVehicleServicer) Get(ctx context.Context, userID, vehicleID uuid.UUID) (domain.Vehicle, error) {
	return m.get(ctx, userID, vehicleID)
}
func (m *mockVehicleServicer) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Vehicle, error) {
	return m.listMine(ctx, userID)
}

var _ handler.VehicleServicer = (*mockVehicleServicer)(nil)

type mockStationServicer struct {
	get       func(ctx context.Context, stationID uuid.UUID) (service.StationWithPrices, error)
	list      func(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error)
	fuelTypes func(ctx context.Context) ([]domain.FuelType, error)
}

func (m *mockStationServicer) Get(ctx context.Context, stationID uuid.UUID) (service.StationWithPrices, error) {
	return m.get(ctx, stationID)
}
func (m *mockStationServicer) List(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error) {
	return m.list(ctx, status, p)
}
func (m *mockStationServicer) FuelTypes(ctx context.Context) ([]domain.FuelType, error) {
	return m.fuelTypes(ctx)
}

var _ handler.StationServicer = (*mockStationServicer)(nil)

// deps bundles the mocks so tests only fill in what they use.
type deps struct {
	proposals mockProposalServicer
	reviews   mockReviewServicer
	ledger    mockLedgerServicer
	vehicles  mockVehicleServicer
	stations  mockStationServicer
}

// newTestRouter mounts the full route tree with a middleware that injects
// userID as the authenticated caller, standing in for the JWT middleware.
func newTestRouter(d *deps, userID uuid.UUID) http.Handler {
	srv := handler.NewServer(&d.proposals, &d.reviews, &d.ledger, &d.vehicles, &d.stations, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != uuid.Nil {
				req = req.WithContext(auth.WithUserID(req.Context(), userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	srv.Routes(r)
	return r
}
