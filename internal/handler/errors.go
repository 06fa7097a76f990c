package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as a JSON response with the given status.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			s.log.Error("encode response", "error", err)
		}
	}
}

// respondError maps a domain error onto the HTTP status taxonomy:
// validation → 400, not found → 404, conflict → 409, access denied → 403.
// Anything else — including internal inconsistencies — is logged with its
// full cause and returned as an opaque 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		s.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code: "validation_error", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrNotFound):
		s.respondJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{
			Code: "not_found", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrConflict):
		s.respondJSON(w, http.StatusConflict, ErrorResponse{Error: ErrorDetail{
			Code: "conflict", Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrAccessDenied):
		s.respondJSON(w, http.StatusForbidden, ErrorResponse{Error: ErrorDetail{
			Code: "access_denied", Message: "access denied",
		}})
	default:
		s.log.ErrorContext(r.Context(), "internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code: "internal_error", Message: "internal server error",
		}})
	}
}

// respondBadRequest rejects a request before it reaches the service layer
// (malformed body, bad UUID in the path).
func (s *Server) respondBadRequest(w http.ResponseWriter, message string) {
	s.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
		Code: "validation_error", Message: message,
	}})
}

// respondUnauthorized rejects a request with no authenticated user.
func (s *Server) respondUnauthorized(w http.ResponseWriter) {
	s.respondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: ErrorDetail{
		Code: "unauthorized", Message: "authentication required",
	}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error chain. Sentinels appear either as a prefix
// ("validation error: reason must be at least 10 characters") or a suffix
// ("proposal no longer pending: conflict"); call-site prefixes like
// "service.ReviewService.CastVote: " are stripped in both cases.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error(),
		domain.ErrNotFound.Error(),
		domain.ErrConflict.Error(),
	} {
		if idx := strings.LastIndex(msg, sentinel+": "); idx >= 0 {
			return msg[idx+len(sentinel)+2:]
		}
		if strings.HasSuffix(msg, ": "+sentinel) {
			msg = strings.TrimSuffix(msg, ": "+sentinel)
			break
		}
	}
	for {
		idx := strings.Index(msg, ": ")
		if idx < 0 || !strings.Contains(msg[:idx], ".") {
			return msg
		}
		msg = msg[idx+2:]
	}
}
