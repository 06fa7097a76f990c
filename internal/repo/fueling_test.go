package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// fuelingFixture returns a domain.Fueling bound to vehicleID using the given
// fuel type. GasStationID is left nil; tests that need a station set it.
func fuelingFixture(vehicleID, fuelTypeID uuid.UUID) domain.Fueling {
	return domain.Fueling{
		VehicleID:         vehicleID,
		Cost:              decimal.RequireFromString("50.00"),
		FuelTypeID:        fuelTypeID,
		PricePerLiter:     decimal.RequireFromString("1.79"),
		Volume:            decimal.RequireFromString("27.93296"),
		Latitude:          42.6977,
		Longitude:         23.3219,
		MomentAppFuelTank: decimal.RequireFromString("40"),
	}
}

func TestFuelingRepo_Create(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))
	fuelType := anyFuelType(t, r)

	input := fuelingFixture(vehicle.ID, fuelType.ID)
	got, err := r.Fuelings.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, vehicle.ID, got.VehicleID)
	assert.Equal(t, fuelType.ID, got.FuelTypeID)
	assert.True(t, got.Cost.Equal(input.Cost))
	assert.True(t, got.PricePerLiter.Equal(input.PricePerLiter))
	assert.True(t, got.Volume.Equal(input.Volume))
	assert.Nil(t, got.GasStationID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestFuelingRepo_Create_WithStation(t *testing.T) {
	r, tx := newTestRepos(t)
	userID := createUser(t, tx, "USER")
	vehicle := createVehicle(t, r, userID)
	station := createStation(t, r, userID, domain.StationActive)
	fuelType := anyFuelType(t, r)

	input := fuelingFixture(vehicle.ID, fuelType.ID)
	input.GasStationID = &station.ID

	got, err := r.Fuelings.Create(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, got.GasStationID)
	assert.Equal(t, station.ID, *got.GasStationID)
}

func TestFuelingRepo_Create_UnknownFuelType(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))

	input := fuelingFixture(vehicle.ID, uuid.New())
	_, err := r.Fuelings.Create(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation, "FK violation should map to ErrValidation")
}

func TestFuelingRepo_Create_ZeroCost(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))
	fuelType := anyFuelType(t, r)

	input := fuelingFixture(vehicle.ID, fuelType.ID)
	input.Cost = decimal.Zero

	_, err := r.Fuelings.Create(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation, "check violation should map to ErrValidation")
}

func TestFuelingRepo_Update(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))
	fuelType := anyFuelType(t, r)
	ctx := context.Background()

	created, err := r.Fuelings.Create(ctx, fuelingFixture(vehicle.ID, fuelType.ID))
	require.NoError(t, err)

	created.Cost = decimal.RequireFromString("30.00")
	created.PricePerLiter = decimal.RequireFromString("1.50")
	created.Volume = decimal.NewFromInt(20)

	got, err := r.Fuelings.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.Cost.Equal(decimal.RequireFromString("30.00")))
	assert.True(t, got.PricePerLiter.Equal(decimal.RequireFromString("1.50")))
	assert.True(t, got.Volume.Equal(decimal.NewFromInt(20)))
	// The tank snapshot recorded at creation time is not rewritten by edits.
	assert.True(t, got.MomentAppFuelTank.Equal(decimal.RequireFromString("40")))
}

func TestFuelingRepo_Update_NotFound(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))
	fuelType := anyFuelType(t, r)

	input := fuelingFixture(vehicle.ID, fuelType.ID)
	input.ID = uuid.New()

	_, err := r.Fuelings.Update(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFuelingRepo_GetByID(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))
	fuelType := anyFuelType(t, r)
	ctx := context.Background()

	created, err := r.Fuelings.Create(ctx, fuelingFixture(vehicle.ID, fuelType.ID))
	require.NoError(t, err)

	got, err := r.Fuelings.GetByID(ctx, vehicle.ID, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestFuelingRepo_GetByID_NotFound(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))

	_, err := r.Fuelings.GetByID(context.Background(), vehicle.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFuelingRepo_ListByVehicle(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))
	fuelType := anyFuelType(t, r)
	ctx := context.Background()

	_, err := r.Fuelings.Create(ctx, fuelingFixture(vehicle.ID, fuelType.ID))
	require.NoError(t, err)
	_, err = r.Fuelings.Create(ctx, fuelingFixture(vehicle.ID, fuelType.ID))
	require.NoError(t, err)

	fuelings, total, err := r.Fuelings.ListByVehicle(ctx, vehicle.ID, domain.PaginationParams{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, fuelings, 2)
}

func TestFuelingRepo_Delete(t *testing.T) {
	r, tx := newTestRepos(t)
	vehicle := createVehicle(t, r, createUser(t, tx, "USER"))
	fuelType := anyFuelType(t, r)
	ctx := context.Background()

	created, err := r.Fuelings.Create(ctx, fuelingFixture(vehicle.ID, fuelType.ID))
	require.NoError(t, err)

	require.NoError(t, r.Fuelings.Delete(ctx, vehicle.ID, created.ID))

	_, err = r.Fuelings.GetByID(ctx, vehicle.ID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestFuelingRepo_StationDelete_SetsNull verifies that deleting a station
// keeps its fuelings but clears the reference (ON DELETE SET NULL). The
// ledger must survive crowdsourced data being removed.
func TestFuelingRepo_StationDelete_SetsNull(t *testing.T) {
	r, tx := newTestRepos(t)
	userID := createUser(t, tx, "USER")
	vehicle := createVehicle(t, r, userID)
	station := createStation(t, r, userID, domain.StationActive)
	fuelType := anyFuelType(t, r)
	ctx := context.Background()

	input := fuelingFixture(vehicle.ID, fuelType.ID)
	input.GasStationID = &station.ID
	created, err := r.Fuelings.Create(ctx, input)
	require.NoError(t, err)

	_, err = tx.Exec(ctx, `DELETE FROM gas_stations WHERE id = $1`, station.ID)
	require.NoError(t, err)

	got, err := r.Fuelings.GetByID(ctx, vehicle.ID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GasStationID)
}
