package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/service"
)

func TestCreateTrip_Returns201(t *testing.T) {
	userID := uuid.New()
	vehicleID := uuid.New()

	var gotInput service.TripInput
	d := &deps{
		ledger: mockLedgerServicer{
			createTrip: func(_ context.Context, uID, vID uuid.UUID, in service.TripInput) (domain.Trip, error) {
				require.Equal(t, userID, uID)
				require.Equal(t, vehicleID, vID)
				gotInput = in
				return domain.Trip{ID: uuid.New(), VehicleID: vID, Distance: in.Distance}, nil
			},
		},
	}
	router := newTestRouter(d, userID)

	body := `{
		"start_time": "2026-03-01T08:00:00Z",
		"end_time": "2026-03-01T10:00:00Z",
		"distance": "100",
		"consumption_rate": "10",
		"route": "home-office"
	}`
	req := httptest.NewRequest(http.MethodPost, "/vehicles/"+vehicleID.String()+"/trips", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, gotInput.Distance.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, gotInput.ConsumptionRate)
	assert.True(t, gotInput.ConsumptionRate.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "home-office", gotInput.Route)
}

func TestCreateTrip_AccessDenied403(t *testing.T) {
	d := &deps{
		ledger: mockLedgerServicer{
			createTrip: func(context.Context, uuid.UUID, uuid.UUID, service.TripInput) (domain.Trip, error) {
				return domain.Trip{}, domain.ErrAccessDenied
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	body := `{"start_time": "2026-03-01T08:00:00Z", "end_time": "2026-03-01T10:00:00Z", "distance": "10"}`
	req := httptest.NewRequest(http.MethodPost, "/vehicles/"+uuid.NewString()+"/trips", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateTrip_Returns200(t *testing.T) {
	tripID := uuid.New()
	d := &deps{
		ledger: mockLedgerServicer{
			updateTrip: func(_ context.Context, _, _, tID uuid.UUID, in service.TripInput) (domain.Trip, error) {
				require.Equal(t, tripID, tID)
				return domain.Trip{ID: tID, Distance: in.Distance}, nil
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	body := `{"start_time": "2026-03-01T08:00:00Z", "end_time": "2026-03-01T10:00:00Z", "distance": "140"}`
	req := httptest.NewRequest(http.MethodPut, "/vehicles/"+uuid.NewString()+"/trips/"+tripID.String(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteTrip_Returns204(t *testing.T) {
	d := &deps{
		ledger: mockLedgerServicer{
			deleteTrip: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
				return nil
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	req := httptest.NewRequest(http.MethodDelete, "/vehicles/"+uuid.NewString()+"/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetTrip_NotFound404(t *testing.T) {
	d := &deps{
		ledger: mockLedgerServicer{
			getTrip: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (domain.Trip, error) {
				return domain.Trip{}, domain.ErrNotFound
			},
		},
	}
	router := newTestRouter(d, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/vehicles/"+uuid.NewString()+"/trips/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTrips_Unauthenticated401(t *testing.T) {
	router := newTestRouter(&deps{}, uuid.Nil)

	req := httptest.NewRequest(http.MethodGet, "/vehicles/"+uuid.NewString()+"/trips", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
