package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/repo"
)

// minReasonLen is the minimum length of the free-text justification on an
// edit proposal. Creation reasons may be shorter.
const minReasonLen = 10

// StationDraft is the input for proposing a new station, including its
// initial price reports.
type StationDraft struct {
	Name          string
	Latitude      float64
	Longitude     float64
	Address       domain.Address
	InitialPrices []PriceDraft
	Reason        string
}

// PriceDraft is one (fuel type, price) pair on a station draft.
type PriceDraft struct {
	FuelTypeID uuid.UUID
	Price      decimal.Decimal
}

// PriceWithProposal pairs a created price with its review proposal.
type PriceWithProposal struct {
	Price    domain.StationPrice `json:"price"`
	Proposal domain.Proposal     `json:"proposal"`
}

// StationProposalResult is everything created by ProposeStation.
type StationProposalResult struct {
	Station  domain.GasStation   `json:"station"`
	Proposal domain.Proposal     `json:"proposal"`
	Prices   []PriceWithProposal `json:"prices"`
}

// ProposalService is the proposal engine: it binds every creatable or
// editable community fact to exactly one reviewable proposal. No resolution
// logic runs here.
type ProposalService struct {
	store Store
}

// NewProposalService constructs a ProposalService over the given store.
func NewProposalService(store Store) *ProposalService {
	return &ProposalService{store: store}
}

// ProposeStation creates a station in UNDER_REVIEW together with its
// INITIAL_CREATION proposal and one price + proposal per initial price
// report, all in a single transaction.
// Returns domain.ErrValidation for bad input or an unknown fuel type,
// domain.ErrConflict when an identical station already exists.
func (s *ProposalService) ProposeStation(ctx context.Context, proposerID uuid.UUID, draft StationDraft) (StationProposalResult, error) {
	if err := validateStationDraft(draft); err != nil {
		return StationProposalResult{}, err
	}

	var result StationProposalResult
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		for _, pd := range draft.InitialPrices {
			if _, err := r.FuelTypes.GetByID(ctx, pd.FuelTypeID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("%w: unknown fuel type %s", domain.ErrValidation, pd.FuelTypeID)
				}
				return err
			}
		}

		station, err := r.Stations.Create(ctx, domain.GasStation{
			Name:      draft.Name,
			Latitude:  draft.Latitude,
			Longitude: draft.Longitude,
			Address:   draft.Address,
			Status:    domain.StationUnderReview,
			CreatedBy: proposerID,
		})
		if err != nil {
			return err
		}
		proposal, err := r.Proposals.Create(ctx, domain.Proposal{
			StationID:  &station.ID,
			ProposerID: proposerID,
			Status:     domain.ProposalPending,
			ReasonType: domain.ReasonInitialCreation,
			Reason:     draft.Reason,
		})
		if err != nil {
			return err
		}
		result = StationProposalResult{Station: station, Proposal: proposal}

		for _, pd := range draft.InitialPrices {
			pwp, err := createPriceWithProposal(ctx, r, station.ID, pd.FuelTypeID, pd.Price, proposerID, draft.Reason)
			if err != nil {
				return err
			}
			result.Prices = append(result.Prices, pwp)
		}
		return nil
	})
	if err != nil {
		return StationProposalResult{}, fmt.Errorf("service.ProposalService.ProposeStation: %w", err)
	}
	return result, nil
}

// ReportPrice creates a new UNDER_REVIEW price report for an existing
// station plus its INITIAL_CREATION proposal, in one transaction.
// Returns domain.ErrNotFound for an unknown station or fuel type,
// domain.ErrValidation for a non-positive price.
func (s *ProposalService) ReportPrice(ctx context.Context, reporterID, stationID, fuelTypeID uuid.UUID, price decimal.Decimal, reason string) (domain.StationPrice, error) {
	if price.Sign() <= 0 {
		return domain.StationPrice{}, fmt.Errorf("service.ProposalService.ReportPrice: %w: price must be positive", domain.ErrValidation)
	}

	var created domain.StationPrice
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		if _, err := r.Stations.GetByID(ctx, stationID); err != nil {
			return err
		}
		if _, err := r.FuelTypes.GetByID(ctx, fuelTypeID); err != nil {
			return err
		}
		pwp, err := createPriceWithProposal(ctx, r, stationID, fuelTypeID, price, reporterID, reason)
		if err != nil {
			return err
		}
		created = pwp.Price
		return nil
	})
	if err != nil {
		return domain.StationPrice{}, fmt.Errorf("service.ProposalService.ReportPrice: %w", err)
	}
	return created, nil
}

// ProposeStationEdit creates a DATA_UPDATE proposal carrying only the
// changed-field subset for an existing station.
// Returns domain.ErrNotFound for an unknown station, domain.ErrValidation
// for an empty change set or short reason, domain.ErrConflict when a
// pending proposal already exists for that station.
func (s *ProposalService) ProposeStationEdit(ctx context.Context, proposerID, stationID uuid.UUID, changes domain.StationChanges, reason string) (domain.Proposal, error) {
	if changes.Empty() {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.ProposeStationEdit: %w: no changes proposed", domain.ErrValidation)
	}
	if err := validateReason(reason); err != nil {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.ProposeStationEdit: %w", err)
	}

	var proposal domain.Proposal
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		if _, err := r.Stations.GetByID(ctx, stationID); err != nil {
			return err
		}
		var err error
		proposal, err = r.Proposals.Create(ctx, domain.Proposal{
			StationID:      &stationID,
			ProposerID:     proposerID,
			Status:         domain.ProposalPending,
			ReasonType:     domain.ReasonDataUpdate,
			Reason:         reason,
			StationChanges: &changes,
		})
		return err
	})
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.ProposeStationEdit: %w", err)
	}
	return proposal, nil
}

// ProposePriceEdit creates a DATA_UPDATE proposal for an existing price row.
// Same error contract as ProposeStationEdit.
func (s *ProposalService) ProposePriceEdit(ctx context.Context, proposerID, priceID uuid.UUID, changes domain.PriceChanges, reason string) (domain.Proposal, error) {
	if changes.Empty() {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.ProposePriceEdit: %w: no changes proposed", domain.ErrValidation)
	}
	if changes.Price != nil && changes.Price.Sign() <= 0 {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.ProposePriceEdit: %w: price must be positive", domain.ErrValidation)
	}
	if err := validateReason(reason); err != nil {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.ProposePriceEdit: %w", err)
	}

	var proposal domain.Proposal
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		if _, err := r.Prices.GetByID(ctx, priceID); err != nil {
			return err
		}
		var err error
		proposal, err = r.Proposals.Create(ctx, domain.Proposal{
			PriceID:      &priceID,
			ProposerID:   proposerID,
			Status:       domain.ProposalPending,
			ReasonType:   domain.ReasonDataUpdate,
			Reason:       reason,
			PriceChanges: &changes,
		})
		return err
	})
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.ProposePriceEdit: %w", err)
	}
	return proposal, nil
}

// Get returns a single proposal by ID.
func (s *ProposalService) Get(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	proposal, err := s.store.Repos().Proposals.GetByID(ctx, id)
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("service.ProposalService.Get: %w", err)
	}
	return proposal, nil
}

// List returns proposals filtered by optional status, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ProposalService) List(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error) {
	proposals, total, err := s.store.Repos().Proposals.List(ctx, status, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ProposalService.List: %w", err)
	}
	if proposals == nil {
		proposals = []domain.Proposal{}
	}
	return proposals, total, nil
}

// createPriceWithProposal inserts one UNDER_REVIEW price row and its PENDING
// INITIAL_CREATION proposal. Shared by ProposeStation and ReportPrice.
func createPriceWithProposal(ctx context.Context, r *repo.Repos, stationID, fuelTypeID uuid.UUID, price decimal.Decimal, proposerID uuid.UUID, reason string) (PriceWithProposal, error) {
	if price.Sign() <= 0 {
		return PriceWithProposal{}, fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	created, err := r.Prices.Create(ctx, domain.StationPrice{
		StationID:  stationID,
		FuelTypeID: fuelTypeID,
		Price:      price,
		ReportedAt: time.Now().UTC(),
		Status:     domain.PriceUnderReview,
		ReportedBy: proposerID,
	})
	if err != nil {
		return PriceWithProposal{}, err
	}
	proposal, err := r.Proposals.Create(ctx, domain.Proposal{
		PriceID:    &created.ID,
		ProposerID: proposerID,
		Status:     domain.ProposalPending,
		ReasonType: domain.ReasonInitialCreation,
		Reason:     reason,
	})
	if err != nil {
		return PriceWithProposal{}, err
	}
	return PriceWithProposal{Price: created, Proposal: proposal}, nil
}

// validateStationDraft enforces the creation rules: non-empty name, sane
// coordinates, and a country/city on the address.
func validateStationDraft(d StationDraft) error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if d.Latitude < -90 || d.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", domain.ErrValidation)
	}
	if d.Longitude < -180 || d.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", domain.ErrValidation)
	}
	if strings.TrimSpace(d.Address.Country) == "" || strings.TrimSpace(d.Address.City) == "" {
		return fmt.Errorf("%w: address country and city are required", domain.ErrValidation)
	}
	return nil
}

// validateReason enforces the minimum justification length on edit proposals.
func validateReason(reason string) error {
	if len(strings.TrimSpace(reason)) < minReasonLen {
		return fmt.Errorf("%w: reason must be at least %d characters", domain.ErrValidation, minReasonLen)
	}
	return nil
}
