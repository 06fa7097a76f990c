package service

import (
	"context"
	"fmt"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/repo"
)

// resolveProposal atomically transitions a proposal and its target entity
// according to the tally outcome. It must run inside the transaction that
// evaluated the tally — partial application (entity updated but proposal
// left pending, or vice versa) is a correctness violation.
//
// PROTESTED only flags the proposal: the target entity is left for manual
// resolution. VERIFIED and REJECTED dispatch to the target entity kind.
func resolveProposal(ctx context.Context, r *repo.Repos, proposal domain.Proposal, outcome domain.Outcome, tally domain.Tally) error {
	notes := formatResolutionNotes(tally)

	// Resolve first: its WHERE status = 'PENDING' guard makes double
	// resolution an ErrConflict before the target entity is touched.
	var status domain.ProposalStatus
	switch outcome {
	case domain.OutcomeVerified:
		status = domain.ProposalVerified
	case domain.OutcomeRejected:
		status = domain.ProposalRejected
	case domain.OutcomeProtested:
		status = domain.ProposalProtested
	default:
		return fmt.Errorf("%w: resolving with outcome %q", domain.ErrInternal, outcome)
	}
	if err := r.Proposals.Resolve(ctx, proposal.ID, status, notes); err != nil {
		return err
	}
	if outcome == domain.OutcomeProtested {
		return nil
	}

	target, err := targetOf(proposal)
	if err != nil {
		return err
	}
	if outcome == domain.OutcomeVerified {
		return target.verify(ctx, r, proposal)
	}
	return target.reject(ctx, r, proposal)
}

// formatResolutionNotes records the per-kind vote counts for audit.
func formatResolutionNotes(t domain.Tally) string {
	return fmt.Sprintf("accepts=%d rejects=%d protests=%d", t.Accepts, t.Rejects, t.Protests)
}

// proposalTarget abstracts the two entity kinds a proposal can govern, so
// resolution dispatches over a closed set of variants instead of a
// model-name string.
type proposalTarget interface {
	// verify applies a VERIFIED outcome: merge proposed changes for a
	// DATA_UPDATE, then ensure the entity is ACTIVE.
	verify(ctx context.Context, r *repo.Repos, p domain.Proposal) error
	// reject applies a REJECTED outcome: an INITIAL_CREATION target becomes
	// REJECTED; a DATA_UPDATE target is left untouched so a rejected edit
	// cannot corrupt an already-active entity.
	reject(ctx context.Context, r *repo.Repos, p domain.Proposal) error
}

// targetOf picks the target variant from the proposal's references.
// A proposal with neither reference set violates a database invariant.
func targetOf(p domain.Proposal) (proposalTarget, error) {
	switch {
	case p.StationID != nil:
		return stationTarget{}, nil
	case p.PriceID != nil:
		return priceTarget{}, nil
	default:
		return nil, fmt.Errorf("%w: proposal %s has no target entity", domain.ErrInternal, p.ID)
	}
}

type stationTarget struct{}

func (stationTarget) verify(ctx context.Context, r *repo.Repos, p domain.Proposal) error {
	if p.ReasonType == domain.ReasonDataUpdate && !p.StationChanges.Empty() {
		if err := r.Stations.ApplyChanges(ctx, *p.StationID, *p.StationChanges); err != nil {
			return err
		}
	}
	return r.Stations.UpdateStatus(ctx, *p.StationID, domain.StationActive)
}

func (stationTarget) reject(ctx context.Context, r *repo.Repos, p domain.Proposal) error {
	if p.ReasonType == domain.ReasonDataUpdate {
		return nil
	}
	return r.Stations.UpdateStatus(ctx, *p.StationID, domain.StationRejected)
}

type priceTarget struct{}

func (priceTarget) verify(ctx context.Context, r *repo.Repos, p domain.Proposal) error {
	if p.ReasonType == domain.ReasonDataUpdate && !p.PriceChanges.Empty() {
		if err := r.Prices.ApplyChanges(ctx, *p.PriceID, *p.PriceChanges); err != nil {
			return err
		}
	}
	return r.Prices.UpdateStatus(ctx, *p.PriceID, domain.PriceActive)
}

func (priceTarget) reject(ctx context.Context, r *repo.Repos, p domain.Proposal) error {
	if p.ReasonType == domain.ReasonDataUpdate {
		return nil
	}
	return r.Prices.UpdateStatus(ctx, *p.PriceID, domain.PriceRejected)
}
