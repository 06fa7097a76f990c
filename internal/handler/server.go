// Package handler implements the HTTP handlers for the fuelbook API.
// Handlers decode requests, call the service layer, and map domain errors to
// HTTP statuses. Methods are split into resource-specific files but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/service"
)

// The service interfaces are defined here, in the consumer package,
// following the Go convention: "accept interfaces, return concrete types".
// Handler tests inject function-field mocks without touching the database
// or service layer.

// ProposalServicer covers the proposal engine operations.
type ProposalServicer interface {
	ProposeStation(ctx context.Context, proposerID uuid.UUID, draft service.StationDraft) (service.StationProposalResult, error)
	ReportPrice(ctx context.Context, reporterID, stationID, fuelTypeID uuid.UUID, price decimal.Decimal, reason string) (domain.StationPrice, error)
	ProposeStationEdit(ctx context.Context, proposerID, stationID uuid.UUID, changes domain.StationChanges, reason string) (domain.Proposal, error)
	ProposePriceEdit(ctx context.Context, proposerID, priceID uuid.UUID, changes domain.PriceChanges, reason string) (domain.Proposal, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Proposal, error)
	List(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error)
}

// ReviewServicer covers vote casting and listing.
type ReviewServicer interface {
	CastVote(ctx context.Context, reviewerID, proposalID uuid.UUID, vote domain.Vote, comment string) (domain.Review, error)
	ListVotes(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error)
}

// LedgerServicer covers trip and fueling ledger operations.
type LedgerServicer interface {
	CreateTrip(ctx context.Context, userID, vehicleID uuid.UUID, in service.TripInput) (domain.Trip, error)
	UpdateTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID, in service.TripInput) (domain.Trip, error)
	DeleteTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID) error
	GetTrip(ctx context.Context, userID, vehicleID, tripID uuid.UUID) (domain.Trip, error)
	ListTrips(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	CreateFueling(ctx context.Context, userID, vehicleID uuid.UUID, in service.FuelingInput) (domain.Fueling, error)
	UpdateFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID, in service.FuelingInput) (domain.Fueling, error)
	DeleteFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) error
	GetFueling(ctx context.Context, userID, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error)
	ListFuelings(ctx context.Context, userID, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error)
}

// VehicleServicer covers the vehicle CRUD surface.
type VehicleServicer interface {
	Create(ctx context.Context, userID uuid.UUID, vehicle domain.Vehicle) (domain.Vehicle, error)
	Get(ctx context.Context, userID, vehicleID uuid.UUID) (domain.Vehicle, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Vehicle, error)
}

// StationServicer covers the station read surface.
type StationServicer interface {
	Get(ctx context.Context, stationID uuid.UUID) (service.StationWithPrices, error)
	List(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error)
	FuelTypes(ctx context.Context) ([]domain.FuelType, error)
}

// Server holds all handler dependencies. Methods live in resource-specific
// files but all operate on this struct.
type Server struct {
	proposals ProposalServicer
	reviews   ReviewServicer
	ledger    LedgerServicer
	vehicles  VehicleServicer
	stations  StationServicer
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(proposals ProposalServicer, reviews ReviewServicer, ledger LedgerServicer, vehicles VehicleServicer, stations StationServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		proposals: proposals,
		reviews:   reviews,
		ledger:    ledger,
		vehicles:  vehicles,
		stations:  stations,
		log:       log,
	}
}

// Routes registers all authenticated API routes on r.
// The health and metrics endpoints are mounted separately in main so they
// stay outside the auth middleware.
func (s *Server) Routes(r chi.Router) {
	r.Route("/stations", func(r chi.Router) {
		r.Post("/", s.CreateStation)
		r.Get("/", s.ListStations)
		r.Get("/{stationID}", s.GetStation)
		r.Post("/{stationID}/prices", s.ReportPrice)
		r.Post("/{stationID}/edits", s.ProposeStationEdit)
	})
	r.Post("/prices/{priceID}/edits", s.ProposePriceEdit)
	r.Get("/fuel-types", s.ListFuelTypes)

	r.Route("/proposals", func(r chi.Router) {
		r.Get("/", s.ListProposals)
		r.Get("/{proposalID}", s.GetProposal)
		r.Post("/{proposalID}/votes", s.CastVote)
		r.Get("/{proposalID}/votes", s.ListVotes)
	})

	r.Route("/vehicles", func(r chi.Router) {
		r.Post("/", s.CreateVehicle)
		r.Get("/", s.ListVehicles)
		r.Get("/{vehicleID}", s.GetVehicle)

		r.Route("/{vehicleID}/trips", func(r chi.Router) {
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Get("/{tripID}", s.GetTrip)
			r.Put("/{tripID}", s.UpdateTrip)
			r.Delete("/{tripID}", s.DeleteTrip)
		})
		r.Route("/{vehicleID}/fuelings", func(r chi.Router) {
			r.Post("/", s.CreateFueling)
			r.Get("/", s.ListFuelings)
			r.Get("/{fuelingID}", s.GetFueling)
			r.Put("/{fuelingID}", s.UpdateFueling)
			r.Delete("/{fuelingID}", s.DeleteFueling)
		})
	})
}
