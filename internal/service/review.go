package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/observability"
	"github.com/mpetkov/fuelbook/backend/internal/repo"
)

// ReviewService records votes and runs the tally after each one. When the
// tally reaches a terminal outcome the proposal and its target entity are
// resolved inside the same transaction as the vote — there is no deferred
// batch job.
type ReviewService struct {
	store  Store
	policy domain.TallyPolicy
}

// NewReviewService constructs a ReviewService with the given tally policy.
func NewReviewService(store Store, policy domain.TallyPolicy) *ReviewService {
	return &ReviewService{store: store, policy: policy}
}

// CastVote upserts the reviewer's vote on a pending proposal and evaluates
// the tally. Re-voting overwrites the reviewer's earlier vote.
//
// Returns domain.ErrValidation for an unknown vote kind, domain.ErrNotFound
// for an unknown proposal, domain.ErrConflict when the proposal is no longer
// pending.
func (s *ReviewService) CastVote(ctx context.Context, reviewerID, proposalID uuid.UUID, vote domain.Vote, comment string) (domain.Review, error) {
	if !domain.ValidVote(vote) {
		return domain.Review{}, fmt.Errorf("service.ReviewService.CastVote: %w: unknown vote %q", domain.ErrValidation, vote)
	}

	var (
		review  domain.Review
		outcome domain.Outcome
	)
	err := s.store.WithTx(ctx, func(r *repo.Repos) error {
		// The row lock serializes concurrent votes on the same proposal:
		// each voter sees the tally including all previously committed votes.
		proposal, err := r.Proposals.GetForUpdate(ctx, proposalID)
		if err != nil {
			return err
		}
		if proposal.Status != domain.ProposalPending {
			return fmt.Errorf("proposal no longer pending: %w", domain.ErrConflict)
		}

		review, err = r.Reviews.Upsert(ctx, domain.Review{
			ProposalID: proposalID,
			ReviewerID: reviewerID,
			Vote:       vote,
			Comment:    comment,
		})
		if err != nil {
			return err
		}

		tally, err := r.Reviews.TallyFor(ctx, proposalID)
		if err != nil {
			return err
		}

		outcome = s.policy.Evaluate(tally)
		if outcome == domain.OutcomePending {
			return nil
		}
		return resolveProposal(ctx, r, proposal, outcome, tally)
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.CastVote: %w", err)
	}
	// Count the resolution only after the transaction has committed; a
	// rolled-back resolution never happened.
	if outcome != domain.OutcomePending {
		observability.ProposalsResolvedTotal.WithLabelValues(string(outcome)).Inc()
	}
	return review, nil
}

// ListVotes returns all votes on a proposal, oldest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ReviewService) ListVotes(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error) {
	if _, err := s.store.Repos().Proposals.GetByID(ctx, proposalID); err != nil {
		return nil, fmt.Errorf("service.ReviewService.ListVotes: %w", err)
	}
	reviews, err := s.store.Repos().Reviews.ListByProposal(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("service.ReviewService.ListVotes: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
