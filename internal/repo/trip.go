package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// All single-row operations are scoped by vehicleID to enforce ownership.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID, scoped to the given
	// vehicleID. Returns domain.ErrNotFound if no trip with that ID exists
	// under that vehicle.
	GetByID(ctx context.Context, vehicleID, tripID uuid.UUID) (domain.Trip, error)

	// ListByVehicle returns trips for a vehicle, most recent start first.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of a trip and returns the
	// updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID, scoped to the given vehicleID.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, vehicleID, tripID uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, vehicle_id, start_time, end_time, distance, consumption_rate_used, fuel_consumed, moment_app_fuel_tank, route, notes, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (vehicle_id, start_time, end_time, distance, consumption_rate_used, fuel_consumed, moment_app_fuel_tank, route, notes)
		VALUES (@vehicle_id, @start_time, @end_time, @distance, @consumption_rate_used, @fuel_consumed, @moment_app_fuel_tank, @route, @notes)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"vehicle_id":            trip.VehicleID,
		"start_time":            trip.StartTime,
		"end_time":              trip.EndTime,
		"distance":              trip.Distance,
		"consumption_rate_used": trip.ConsumptionRateUsed,
		"fuel_consumed":         trip.FuelConsumed,
		"moment_app_fuel_tank":  trip.MomentAppFuelTank,
		"route":                 trip.Route,
		"notes":                 trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, vehicleID, tripID uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id AND vehicle_id = @vehicle_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": tripID, "vehicle_id": vehicleID})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgTripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `, count(*) OVER () AS total
		FROM trips
		WHERE vehicle_id = @vehicle_id
		ORDER BY start_time DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"vehicle_id": vehicleID,
		"limit":      p.Limit,
		"offset":     p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByVehicle: %w", err)
	}
	defer rows.Close()

	var (
		trips []domain.Trip
		total int64
	)
	for rows.Next() {
		t, err := scanTripWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListByVehicle: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByVehicle: rows: %w", err)
	}
	return trips, total, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET start_time            = @start_time,
		    end_time              = @end_time,
		    distance              = @distance,
		    consumption_rate_used = @consumption_rate_used,
		    fuel_consumed         = @fuel_consumed,
		    route                 = @route,
		    notes                 = @notes,
		    updated_at            = now()
		WHERE id = @id AND vehicle_id = @vehicle_id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":                    trip.ID,
		"vehicle_id":            trip.VehicleID,
		"start_time":            trip.StartTime,
		"end_time":              trip.EndTime,
		"distance":              trip.Distance,
		"consumption_rate_used": trip.ConsumptionRateUsed,
		"fuel_consumed":         trip.FuelConsumed,
		"route":                 trip.Route,
		"notes":                 trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapError(err))
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, vehicleID, tripID uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND vehicle_id = @vehicle_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": tripID, "vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var t int64
	return scanTripInto(s, &t, false)
}

func scanTripWithTotal(s scanner, total *int64) (domain.Trip, error) {
	return scanTripInto(s, total, true)
}

func scanTripInto(s scanner, total *int64, withTotal bool) (domain.Trip, error) {
	var (
		t   domain.Trip
		id  pgtype.UUID
		vid pgtype.UUID
	)
	dest := []any{&id, &vid, &t.StartTime, &t.EndTime, &t.Distance, &t.ConsumptionRateUsed,
		&t.FuelConsumed, &t.MomentAppFuelTank, &t.Route, &t.Notes, &t.CreatedAt, &t.UpdatedAt}
	if withTotal {
		dest = append(dest, total)
	}
	if err := s.Scan(dest...); err != nil {
		return domain.Trip{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.VehicleID = uuid.UUID(vid.Bytes)
	return t, nil
}
