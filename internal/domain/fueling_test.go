package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

func TestComputeVolume_Rounding(t *testing.T) {
	// 50.00 / 1.79 = 27.93296089... L, rounded half-up to 5 places.
	got, err := domain.ComputeVolume(decimal.RequireFromString("50.00"), decimal.RequireFromString("1.79"))

	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("27.93296")), "got %s", got)
}

func TestComputeVolume_ZeroCostDividesToZero(t *testing.T) {
	// The arithmetic itself only requires a positive price; whether a
	// zero-cost event may be recorded is decided at the service layer.
	got, err := domain.ComputeVolume(decimal.Zero, decimal.RequireFromString("1.79"))

	require.NoError(t, err)
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestComputeVolume_RejectsNonPositivePrice(t *testing.T) {
	_, err := domain.ComputeVolume(decimal.NewFromInt(50), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = domain.ComputeVolume(decimal.NewFromInt(50), decimal.NewFromInt(-2))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestComputeVolume_RejectsNegativeCost(t *testing.T) {
	_, err := domain.ComputeVolume(decimal.NewFromInt(-1), decimal.NewFromInt(2))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
