package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// ProposalRepo defines the persistence operations for Proposals.
type ProposalRepo interface {
	// Create inserts a new proposal. Returns domain.ErrConflict if a PENDING
	// proposal already exists for the same target entity (partial unique
	// index), domain.ErrValidation if a referenced row is missing.
	Create(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error)

	// GetByID retrieves a proposal by its UUID primary key.
	// Returns domain.ErrNotFound if no proposal with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Proposal, error)

	// GetForUpdate retrieves a proposal with a row lock, serializing
	// concurrent votes on the same proposal. Only meaningful inside a
	// transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Proposal, error)

	// List returns proposals ordered by created_at descending, optionally
	// filtered by status, with the total row count for pagination.
	List(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error)

	// Resolve moves a PENDING proposal to a terminal status and records the
	// resolution notes. Returns domain.ErrConflict if the proposal is no
	// longer pending — a resolved proposal is never re-resolved.
	Resolve(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, notes string) error
}

// pgProposalRepo is the Postgres implementation of ProposalRepo.
type pgProposalRepo struct {
	db db
}

// NewProposalRepo constructs a ProposalRepo backed by the provided db connection.
func NewProposalRepo(db db) ProposalRepo {
	return &pgProposalRepo{db: db}
}

const proposalColumns = `id, station_id, price_id, proposer_id, status, reason_type, reason, proposed_changes, resolution_notes, created_at, updated_at`

func (r *pgProposalRepo) Create(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	const q = `
		INSERT INTO proposals (station_id, price_id, proposer_id, status, reason_type, reason, proposed_changes)
		VALUES (@station_id, @price_id, @proposer_id, @status, @reason_type, @reason, @proposed_changes::jsonb)
		RETURNING ` + proposalColumns

	changes, err := marshalChanges(proposal)
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("repo.ProposalRepo.Create: %w", err)
	}

	args := pgx.NamedArgs{
		"station_id":       proposal.StationID,
		"price_id":         proposal.PriceID,
		"proposer_id":      proposal.ProposerID,
		"status":           proposal.Status,
		"reason_type":      proposal.ReasonType,
		"reason":           proposal.Reason,
		"proposed_changes": changes,
	}

	result, err := scanProposal(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("repo.ProposalRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgProposalRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	const q = `SELECT ` + proposalColumns + ` FROM proposals WHERE id = @id`

	result, err := scanProposal(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("repo.ProposalRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgProposalRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	const q = `SELECT ` + proposalColumns + ` FROM proposals WHERE id = @id FOR UPDATE`

	result, err := scanProposal(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("repo.ProposalRepo.GetForUpdate: %w", mapError(err))
	}
	return result, nil
}

func (r *pgProposalRepo) List(ctx context.Context, status *domain.ProposalStatus, p domain.PaginationParams) ([]domain.Proposal, int64, error) {
	const q = `
		SELECT ` + proposalColumns + `, count(*) OVER () AS total
		FROM proposals
		WHERE @status::text IS NULL OR status = @status
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"status": status,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ProposalRepo.List: %w", err)
	}
	defer rows.Close()

	var (
		proposals []domain.Proposal
		total     int64
	)
	for rows.Next() {
		pr, err := scanProposalWith(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ProposalRepo.List: scan: %w", err)
		}
		proposals = append(proposals, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ProposalRepo.List: rows: %w", err)
	}
	return proposals, total, nil
}

// Resolve guards the status transition in SQL: the WHERE clause only matches
// a PENDING row, so a second resolution affects zero rows and surfaces as
// ErrConflict. This keeps double resolution impossible even without the
// caller holding the row lock.
func (r *pgProposalRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.ProposalStatus, notes string) error {
	const q = `
		UPDATE proposals
		SET status = @status, resolution_notes = @notes, updated_at = now()
		WHERE id = @id AND status = 'PENDING'`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": status, "notes": notes})
	if err != nil {
		return fmt.Errorf("repo.ProposalRepo.Resolve: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ProposalRepo.Resolve: proposal not pending: %w", domain.ErrConflict)
	}
	return nil
}

// marshalChanges serializes the proposed change set for the JSONB column.
// INITIAL_CREATION proposals carry no change set and store NULL.
func marshalChanges(p domain.Proposal) (*string, error) {
	var payload any
	switch {
	case p.StationChanges != nil:
		payload = p.StationChanges
	case p.PriceChanges != nil:
		payload = p.PriceChanges
	default:
		return nil, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal proposed changes: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// scanProposal maps a single database row into a domain.Proposal.
// The proposed_changes JSONB payload is decoded according to which target
// reference is set.
func scanProposal(s scanner) (domain.Proposal, error) {
	var total int64
	return scanProposalInto(s, &total, false)
}

func scanProposalWith(s scanner, total *int64) (domain.Proposal, error) {
	return scanProposalInto(s, total, true)
}

func scanProposalInto(s scanner, total *int64, withTotal bool) (domain.Proposal, error) {
	var (
		p       domain.Proposal
		id      pgtype.UUID
		prop    pgtype.UUID
		station pgtype.UUID
		price   pgtype.UUID
		changes []byte
	)
	dest := []any{&id, &station, &price, &prop, &p.Status, &p.ReasonType, &p.Reason, &changes, &p.ResolutionNotes, &p.CreatedAt, &p.UpdatedAt}
	if withTotal {
		dest = append(dest, total)
	}
	if err := s.Scan(dest...); err != nil {
		return domain.Proposal{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.ProposerID = uuid.UUID(prop.Bytes)
	if station.Valid {
		sid := uuid.UUID(station.Bytes)
		p.StationID = &sid
	}
	if price.Valid {
		pid := uuid.UUID(price.Bytes)
		p.PriceID = &pid
	}

	if len(changes) > 0 {
		switch {
		case p.StationID != nil:
			p.StationChanges = &domain.StationChanges{}
			if err := json.Unmarshal(changes, p.StationChanges); err != nil {
				return domain.Proposal{}, fmt.Errorf("decode station changes: %w", err)
			}
		case p.PriceID != nil:
			p.PriceChanges = &domain.PriceChanges{}
			if err := json.Unmarshal(changes, p.PriceChanges); err != nil {
				return domain.Proposal{}, fmt.Errorf("decode price changes: %w", err)
			}
		}
	}
	return p, nil
}
