package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// FuelingRepo defines the persistence operations for Fuelings.
// All single-row operations are scoped by vehicleID to enforce ownership.
type FuelingRepo interface {
	// Create inserts a new fueling and returns the persisted record.
	// Returns domain.ErrValidation if a referenced row (fuel type, station)
	// does not exist.
	Create(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error)

	// GetByID retrieves a single fueling by its UUID, scoped to the given
	// vehicleID. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error)

	// ListByVehicle returns fuelings for a vehicle, most recent first.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error)

	// Update overwrites the mutable fields of a fueling and returns the
	// updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error)

	// Delete removes a fueling by ID, scoped to the given vehicleID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, vehicleID, fuelingID uuid.UUID) error
}

// pgFuelingRepo is the Postgres implementation of FuelingRepo.
type pgFuelingRepo struct {
	db db
}

// NewFuelingRepo constructs a FuelingRepo backed by the provided db connection.
func NewFuelingRepo(db db) FuelingRepo {
	return &pgFuelingRepo{db: db}
}

const fuelingColumns = `id, vehicle_id, cost, fuel_type_id, price_per_liter, volume, latitude, longitude, gas_station_id, moment_app_fuel_tank, created_at, updated_at`

func (r *pgFuelingRepo) Create(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error) {
	const q = `
		INSERT INTO fuelings (vehicle_id, cost, fuel_type_id, price_per_liter, volume, latitude, longitude, gas_station_id, moment_app_fuel_tank)
		VALUES (@vehicle_id, @cost, @fuel_type_id, @price_per_liter, @volume, @latitude, @longitude, @gas_station_id, @moment_app_fuel_tank)
		RETURNING ` + fuelingColumns

	args := pgx.NamedArgs{
		"vehicle_id":           fueling.VehicleID,
		"cost":                 fueling.Cost,
		"fuel_type_id":         fueling.FuelTypeID,
		"price_per_liter":      fueling.PricePerLiter,
		"volume":               fueling.Volume,
		"latitude":             fueling.Latitude,
		"longitude":            fueling.Longitude,
		"gas_station_id":       fueling.GasStationID,
		"moment_app_fuel_tank": fueling.MomentAppFuelTank,
	}

	result, err := scanFueling(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("repo.FuelingRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgFuelingRepo) GetByID(ctx context.Context, vehicleID, fuelingID uuid.UUID) (domain.Fueling, error) {
	const q = `SELECT ` + fuelingColumns + ` FROM fuelings WHERE id = @id AND vehicle_id = @vehicle_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": fuelingID, "vehicle_id": vehicleID})
	result, err := scanFueling(row)
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("repo.FuelingRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgFuelingRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	const q = `
		SELECT ` + fuelingColumns + `, count(*) OVER () AS total
		FROM fuelings
		WHERE vehicle_id = @vehicle_id
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"vehicle_id": vehicleID,
		"limit":      p.Limit,
		"offset":     p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.FuelingRepo.ListByVehicle: %w", err)
	}
	defer rows.Close()

	var (
		fuelings []domain.Fueling
		total    int64
	)
	for rows.Next() {
		f, err := scanFuelingWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.FuelingRepo.ListByVehicle: scan: %w", err)
		}
		fuelings = append(fuelings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.FuelingRepo.ListByVehicle: rows: %w", err)
	}
	return fuelings, total, nil
}

func (r *pgFuelingRepo) Update(ctx context.Context, fueling domain.Fueling) (domain.Fueling, error) {
	const q = `
		UPDATE fuelings
		SET cost            = @cost,
		    fuel_type_id    = @fuel_type_id,
		    price_per_liter = @price_per_liter,
		    volume          = @volume,
		    latitude        = @latitude,
		    longitude       = @longitude,
		    gas_station_id  = @gas_station_id,
		    updated_at      = now()
		WHERE id = @id AND vehicle_id = @vehicle_id
		RETURNING ` + fuelingColumns

	args := pgx.NamedArgs{
		"id":              fueling.ID,
		"vehicle_id":      fueling.VehicleID,
		"cost":            fueling.Cost,
		"fuel_type_id":    fueling.FuelTypeID,
		"price_per_liter": fueling.PricePerLiter,
		"volume":          fueling.Volume,
		"latitude":        fueling.Latitude,
		"longitude":       fueling.Longitude,
		"gas_station_id":  fueling.GasStationID,
	}

	result, err := scanFueling(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("repo.FuelingRepo.Update: %w", mapError(err))
	}
	return result, nil
}

func (r *pgFuelingRepo) Delete(ctx context.Context, vehicleID, fuelingID uuid.UUID) error {
	const q = `DELETE FROM fuelings WHERE id = @id AND vehicle_id = @vehicle_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": fuelingID, "vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("repo.FuelingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.FuelingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanFueling maps a single database row into a domain.Fueling.
func scanFueling(s scanner) (domain.Fueling, error) {
	var t int64
	return scanFuelingInto(s, &t, false)
}

func scanFuelingWithTotal(s scanner, total *int64) (domain.Fueling, error) {
	return scanFuelingInto(s, total, true)
}

func scanFuelingInto(s scanner, total *int64, withTotal bool) (domain.Fueling, error) {
	var (
		f   domain.Fueling
		id  pgtype.UUID
		vid pgtype.UUID
		fid pgtype.UUID
		gid pgtype.UUID
	)
	dest := []any{&id, &vid, &f.Cost, &fid, &f.PricePerLiter, &f.Volume,
		&f.Latitude, &f.Longitude, &gid, &f.MomentAppFuelTank, &f.CreatedAt, &f.UpdatedAt}
	if withTotal {
		dest = append(dest, total)
	}
	if err := s.Scan(dest...); err != nil {
		return domain.Fueling{}, err
	}
	f.ID = uuid.UUID(id.Bytes)
	f.VehicleID = uuid.UUID(vid.Bytes)
	f.FuelTypeID = uuid.UUID(fid.Bytes)
	if gid.Valid {
		g := uuid.UUID(gid.Bytes)
		f.GasStationID = &g
	}
	return f, nil
}
