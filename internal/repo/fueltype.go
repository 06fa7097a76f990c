package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// FuelTypeRepo reads the fuel type lookup table seeded by migration.
type FuelTypeRepo interface {
	// GetByID retrieves a fuel type by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.FuelType, error)

	// List returns all fuel types ordered by name.
	List(ctx context.Context) ([]domain.FuelType, error)
}

type pgFuelTypeRepo struct {
	db db
}

// NewFuelTypeRepo constructs a FuelTypeRepo backed by the provided db connection.
func NewFuelTypeRepo(db db) FuelTypeRepo {
	return &pgFuelTypeRepo{db: db}
}

func (r *pgFuelTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.FuelType, error) {
	const q = `SELECT id, name FROM fuel_types WHERE id = @id`

	var (
		ft  domain.FuelType
		fid pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&fid, &ft.Name)
	if err != nil {
		return domain.FuelType{}, fmt.Errorf("repo.FuelTypeRepo.GetByID: %w", mapError(err))
	}
	ft.ID = uuid.UUID(fid.Bytes)
	return ft, nil
}

func (r *pgFuelTypeRepo) List(ctx context.Context) ([]domain.FuelType, error) {
	const q = `SELECT id, name FROM fuel_types ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.FuelTypeRepo.List: %w", err)
	}
	defer rows.Close()

	var types []domain.FuelType
	for rows.Next() {
		var (
			ft  domain.FuelType
			fid pgtype.UUID
		)
		if err := rows.Scan(&fid, &ft.Name); err != nil {
			return nil, fmt.Errorf("repo.FuelTypeRepo.List: scan: %w", err)
		}
		ft.ID = uuid.UUID(fid.Bytes)
		types = append(types, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.FuelTypeRepo.List: rows: %w", err)
	}
	return types, nil
}
