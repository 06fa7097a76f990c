package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mpetkov/fuelbook/backend/internal/auth"
	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// Pagination is the envelope metadata for paginated list responses.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListResponse is the generic paginated list envelope.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// listResponse builds the envelope from items plus the applied params.
func listResponse[T any](items []T, p domain.PaginationParams, total int64) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Data:       items,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: total},
	}
}

// pathUUID parses a UUID path parameter. ok is false after an error
// response has already been written.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		s.respondBadRequest(w, "invalid "+name)
		return uuid.UUID{}, false
	}
	return id, true
}

// currentUser extracts the authenticated user placed in the context by the
// JWT middleware. ok is false after a 401 has already been written.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		s.respondUnauthorized(w)
		return uuid.UUID{}, false
	}
	return userID, true
}

// decodeBody decodes the JSON request body into v. ok is false after an
// error response has already been written.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		s.respondBadRequest(w, "request body is required")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.respondBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// parseUUIDField parses a UUID sent as a JSON string field.
func parseUUIDField(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// queryPagination reads optional ?page= and ?limit= query parameters.
func queryPagination(r *http.Request) domain.PaginationParams {
	var page, limit *int
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page = &v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = &v
	}
	return domain.NewPaginationParams(page, limit)
}
