package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// ReviewRepo defines the persistence operations for Reviews (votes).
type ReviewRepo interface {
	// Upsert stores a reviewer's vote on a proposal, overwriting any earlier
	// vote by the same reviewer. The (proposal_id, reviewer_id) unique key
	// makes concurrent re-votes commutative: exactly one row survives.
	Upsert(ctx context.Context, review domain.Review) (domain.Review, error)

	// TallyFor counts the votes on a proposal by kind.
	TallyFor(ctx context.Context, proposalID uuid.UUID) (domain.Tally, error)

	// ListByProposal returns all votes on a proposal, oldest first.
	ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error)
}

// pgReviewRepo is the Postgres implementation of ReviewRepo.
type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

const reviewColumns = `id, proposal_id, reviewer_id, vote, comment, created_at, updated_at`

func (r *pgReviewRepo) Upsert(ctx context.Context, review domain.Review) (domain.Review, error) {
	const q = `
		INSERT INTO reviews (proposal_id, reviewer_id, vote, comment)
		VALUES (@proposal_id, @reviewer_id, @vote, @comment)
		ON CONFLICT (proposal_id, reviewer_id)
		DO UPDATE SET vote = EXCLUDED.vote, comment = EXCLUDED.comment, updated_at = now()
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{
		"proposal_id": review.ProposalID,
		"reviewer_id": review.ReviewerID,
		"vote":        review.Vote,
		"comment":     review.Comment,
	}

	result, err := scanReview(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Upsert: %w", mapError(err))
	}
	return result, nil
}

func (r *pgReviewRepo) TallyFor(ctx context.Context, proposalID uuid.UUID) (domain.Tally, error) {
	const q = `
		SELECT
			count(*) FILTER (WHERE vote = 'ACCEPT'),
			count(*) FILTER (WHERE vote = 'REJECT'),
			count(*) FILTER (WHERE vote = 'PROTEST')
		FROM reviews
		WHERE proposal_id = @proposal_id`

	var t domain.Tally
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"proposal_id": proposalID})
	if err := row.Scan(&t.Accepts, &t.Rejects, &t.Protests); err != nil {
		return domain.Tally{}, fmt.Errorf("repo.ReviewRepo.TallyFor: %w", err)
	}
	return t, nil
}

func (r *pgReviewRepo) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE proposal_id = @proposal_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"proposal_id": proposalID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByProposal: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReviewRepo.ListByProposal: scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByProposal: rows: %w", err)
	}
	return reviews, nil
}

// scanReview maps a single database row into a domain.Review.
func scanReview(s scanner) (domain.Review, error) {
	var (
		rv  domain.Review
		id  pgtype.UUID
		pid pgtype.UUID
		rid pgtype.UUID
	)
	err := s.Scan(&id, &pid, &rid, &rv.Vote, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return domain.Review{}, err
	}
	rv.ID = uuid.UUID(id.Bytes)
	rv.ProposalID = uuid.UUID(pid.Bytes)
	rv.ReviewerID = uuid.UUID(rid.Bytes)
	return rv, nil
}
