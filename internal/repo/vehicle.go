package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// VehicleRepo defines the persistence operations for Vehicles.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record.
	Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a vehicle by its UUID primary key.
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// GetForUpdate retrieves a vehicle with a row lock, serializing
	// concurrent ledger events on the same vehicle. Only meaningful inside
	// a transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// ListByOwner returns the owner's vehicles, oldest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Vehicle, error)

	// ApplyLedgerDelta adds the given deltas to the vehicle's odometer and
	// fuel tank. The update is expressed as a SQL increment, never an
	// overwrite, so concurrent ledger events cannot lose each other's
	// effects. Returns domain.ErrNotFound if the vehicle does not exist.
	ApplyLedgerDelta(ctx context.Context, id uuid.UUID, deltaOdometer, deltaTank decimal.Decimal) error
}

// pgVehicleRepo is the Postgres implementation of VehicleRepo.
type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleColumns = `id, owner_id, name, plate, consumption_rate, app_odometer, app_fuel_tank, created_at, updated_at`

func (r *pgVehicleRepo) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (owner_id, name, plate, consumption_rate, app_odometer, app_fuel_tank)
		VALUES (@owner_id, @name, @plate, @consumption_rate, @app_odometer, @app_fuel_tank)
		RETURNING ` + vehicleColumns

	args := pgx.NamedArgs{
		"owner_id":         vehicle.OwnerID,
		"name":             vehicle.Name,
		"plate":            vehicle.Plate,
		"consumption_rate": vehicle.ConsumptionRate,
		"app_odometer":     vehicle.AppOdometer,
		"app_fuel_tank":    vehicle.AppFuelTank,
	}

	result, err := scanVehicle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id FOR UPDATE`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetForUpdate: %w", mapError(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE owner_id = @owner_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.ListByOwner: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.ListByOwner: rows: %w", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepo) ApplyLedgerDelta(ctx context.Context, id uuid.UUID, deltaOdometer, deltaTank decimal.Decimal) error {
	const q = `
		UPDATE vehicles
		SET app_odometer  = app_odometer + @delta_odometer,
		    app_fuel_tank = app_fuel_tank + @delta_tank,
		    updated_at    = now()
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":             id,
		"delta_odometer": deltaOdometer,
		"delta_tank":     deltaTank,
	}
	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.ApplyLedgerDelta: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.ApplyLedgerDelta: %w", domain.ErrNotFound)
	}
	return nil
}

// scanVehicle maps a single database row into a domain.Vehicle.
func scanVehicle(s scanner) (domain.Vehicle, error) {
	var (
		v  domain.Vehicle
		id pgtype.UUID
		ow pgtype.UUID
	)
	err := s.Scan(&id, &ow, &v.Name, &v.Plate, &v.ConsumptionRate, &v.AppOdometer, &v.AppFuelTank, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.Vehicle{}, err
	}
	v.ID = uuid.UUID(id.Bytes)
	v.OwnerID = uuid.UUID(ow.Bytes)
	return v, nil
}
