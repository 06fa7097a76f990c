package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProposalStatus is the lifecycle state of a community proposal.
type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "PENDING"
	ProposalVerified  ProposalStatus = "VERIFIED"
	ProposalRejected  ProposalStatus = "REJECTED"
	ProposalProtested ProposalStatus = "PROTESTED"
)

// ReasonType says why a proposal exists: the target entity was just created,
// or an edit to an existing entity is being suggested.
type ReasonType string

const (
	ReasonInitialCreation ReasonType = "INITIAL_CREATION"
	ReasonDataUpdate      ReasonType = "DATA_UPDATE"
)

// Proposal is a pending community decision bound to exactly one target
// entity: either a GasStation or a StationPrice (exactly one of StationID /
// PriceID is set). At most one PENDING proposal may exist per target entity
// at a time; the database enforces this with a partial unique index.
//
// Proposals are created together with their target (INITIAL_CREATION) or
// standalone when an edit is suggested (DATA_UPDATE). Only the resolution
// logic mutates them afterwards.
type Proposal struct {
	ID         uuid.UUID      `json:"id"`
	StationID  *uuid.UUID     `json:"station_id,omitempty"`
	PriceID    *uuid.UUID     `json:"price_id,omitempty"`
	ProposerID uuid.UUID      `json:"proposer_id"`
	Status     ProposalStatus `json:"status"`
	ReasonType ReasonType     `json:"reason_type"`
	Reason     string         `json:"reason,omitempty"`

	// StationChanges / PriceChanges hold the changed-field subset for a
	// DATA_UPDATE proposal. Both are nil for INITIAL_CREATION — the initial
	// data lives on the target entity itself.
	StationChanges *StationChanges `json:"station_changes,omitempty"`
	PriceChanges   *PriceChanges   `json:"price_changes,omitempty"`

	ResolutionNotes string    `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StationChanges is the changed-field subset of a station edit proposal.
// Nil fields are "no change". Stored as JSONB on the proposal row.
type StationChanges struct {
	Name      *string  `json:"name,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

// Empty reports whether the change set would not modify anything.
func (c *StationChanges) Empty() bool {
	return c == nil || (c.Name == nil && c.Latitude == nil && c.Longitude == nil && c.Address == nil)
}

// PriceChanges is the changed-field subset of a price edit proposal.
type PriceChanges struct {
	Price *decimal.Decimal `json:"price,omitempty"`
}

// Empty reports whether the change set would not modify anything.
func (c *PriceChanges) Empty() bool {
	return c == nil || c.Price == nil
}

// Vote is one reviewer's verdict on a proposal.
type Vote string

const (
	VoteAccept Vote = "ACCEPT"
	VoteReject Vote = "REJECT"
	// VoteProtest signals a correctness concern that needs manual attention.
	// A single protest moves the proposal to PROTESTED regardless of quorum.
	VoteProtest Vote = "PROTEST"
)

// ValidVote reports whether v is one of the three known vote kinds.
func ValidVote(v Vote) bool {
	return v == VoteAccept || v == VoteReject || v == VoteProtest
}

// Review is one reviewer's vote on one proposal. Unique per
// (proposal, reviewer): re-voting overwrites the previous row.
type Review struct {
	ID         uuid.UUID `json:"id"`
	ProposalID uuid.UUID `json:"proposal_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Vote       Vote      `json:"vote"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
