package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

func TestCastVote_Returns201(t *testing.T) {
	userID := uuid.New()
	proposalID := uuid.New()

	d := &deps{
		reviews: mockReviewServicer{
			castVote: func(_ context.Context, reviewerID, pID uuid.UUID, vote domain.Vote, comment string) (domain.Review, error) {
				require.Equal(t, userID, reviewerID)
				require.Equal(t, proposalID, pID)
				require.Equal(t, domain.VoteAccept, vote)
				require.Equal(t, "checked on site", comment)
				return domain.Review{ID: uuid.New(), ProposalID: pID, ReviewerID: reviewerID, Vote: vote, Comment: comment}, nil
			},
		},
	}
	router := newTestRouter(d, userID)

	body := `{"vote": "ACCEPT", "comment": "checked on site"}`
	req := httptest.NewRequest(http.MethodPost, "/proposals/"+proposalID.String()+"/votes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var review domain.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	assert.Equal(t, domain.VoteAccept, review.Vote)
}

func TestCastVote_ResolvedProposal409(t *testing.T) {
	d := &deps{
		reviews: mockReviewServicer{
			castVote: func(context.Context, uuid.UUID, uuid.UUID, domain.Vote, string) (domain.Review, error) {
				return domain.Review{}, domain.ErrConflict
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/proposals/"+uuid.NewString()+"/votes",
		strings.NewReader(`{"vote": "ACCEPT"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCastVote_UnknownVoteKind400(t *testing.T) {
	d := &deps{
		reviews: mockReviewServicer{
			castVote: func(context.Context, uuid.UUID, uuid.UUID, domain.Vote, string) (domain.Review, error) {
				return domain.Review{}, domain.ErrValidation
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/proposals/"+uuid.NewString()+"/votes",
		strings.NewReader(`{"vote": "MAYBE"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCastVote_UnknownBodyField400(t *testing.T) {
	router := newTestRouter(&deps{}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/proposals/"+uuid.NewString()+"/votes",
		strings.NewReader(`{"vote": "ACCEPT", "ballot": 1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProposal_InvalidID400(t *testing.T) {
	router := newTestRouter(&deps{}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/proposals/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProposals_StatusFilter(t *testing.T) {
	var gotStatus *domain.ProposalStatus
	d := &deps{
		proposals: mockProposalServicer{
			list: func(_ context.Context, status *domain.ProposalStatus, _ domain.PaginationParams) ([]domain.Proposal, int64, error) {
				gotStatus = status
				return []domain.Proposal{}, 0, nil
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/proposals?status=PENDING", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotStatus)
	assert.Equal(t, domain.ProposalPending, *gotStatus)
}

func TestListVotes_Returns200(t *testing.T) {
	proposalID := uuid.New()
	d := &deps{
		reviews: mockReviewServicer{
			listVotes: func(_ context.Context, pID uuid.UUID) ([]domain.Review, error) {
				require.Equal(t, proposalID, pID)
				return []domain.Review{{ID: uuid.New(), ProposalID: pID, Vote: domain.VoteAccept}}, nil
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/proposals/"+proposalID.String()+"/votes", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var reviews []domain.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	assert.Len(t, reviews, 1)
}
