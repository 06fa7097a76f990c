package handler

import (
	"net/http"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// ListProposals handles GET /proposals. Supports ?status= plus pagination.
func (s *Server) ListProposals(w http.ResponseWriter, r *http.Request) {
	var status *domain.ProposalStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := domain.ProposalStatus(v)
		status = &st
	}
	params := queryPagination(r)

	proposals, total, err := s.proposals.List(r.Context(), status, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, listResponse(proposals, params, total))
}

// GetProposal handles GET /proposals/{proposalID}.
func (s *Server) GetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := s.pathUUID(w, r, "proposalID")
	if !ok {
		return
	}
	proposal, err := s.proposals.Get(r.Context(), proposalID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, proposal)
}

// CastVoteRequest is the body for POST /proposals/{proposalID}/votes.
type CastVoteRequest struct {
	Vote    domain.Vote `json:"vote"`
	Comment string      `json:"comment,omitempty"`
}

// CastVote handles POST /proposals/{proposalID}/votes. Re-voting replaces
// the caller's earlier vote on the same proposal.
func (s *Server) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	proposalID, ok := s.pathUUID(w, r, "proposalID")
	if !ok {
		return
	}
	var req CastVoteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	review, err := s.reviews.CastVote(r.Context(), userID, proposalID, req.Vote, req.Comment)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, review)
}

// ListVotes handles GET /proposals/{proposalID}/votes.
func (s *Server) ListVotes(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := s.pathUUID(w, r, "proposalID")
	if !ok {
		return
	}
	reviews, err := s.reviews.ListVotes(r.Context(), proposalID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, reviews)
}
