package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// PriceRepo defines the persistence operations for StationPrices.
type PriceRepo interface {
	// Create inserts a new reported price and returns the persisted record.
	// Returns domain.ErrValidation if the station or fuel type does not exist.
	Create(ctx context.Context, price domain.StationPrice) (domain.StationPrice, error)

	// GetByID retrieves a single price by its UUID primary key.
	// Returns domain.ErrNotFound if no price with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.StationPrice, error)

	// LatestActive returns the most recently reported ACTIVE price for the
	// given (station, fuel type) pair. Recency ordering makes older active
	// rows outdated without requiring a status sweep.
	// Returns domain.ErrNotFound when no active price exists.
	LatestActive(ctx context.Context, stationID, fuelTypeID uuid.UUID) (domain.StationPrice, error)

	// ListByStation returns all prices for a station, most recent first.
	ListByStation(ctx context.Context, stationID uuid.UUID) ([]domain.StationPrice, error)

	// UpdateStatus sets the price's status.
	// Returns domain.ErrNotFound if the price does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PriceStatus) error

	// ApplyChanges merges a non-empty change set onto the price row.
	ApplyChanges(ctx context.Context, id uuid.UUID, changes domain.PriceChanges) error
}

// pgPriceRepo is the Postgres implementation of PriceRepo.
type pgPriceRepo struct {
	db db
}

// NewPriceRepo constructs a PriceRepo backed by the provided db connection.
func NewPriceRepo(db db) PriceRepo {
	return &pgPriceRepo{db: db}
}

const priceColumns = `id, station_id, fuel_type_id, price, reported_at, status, reported_by, created_at, updated_at`

func (r *pgPriceRepo) Create(ctx context.Context, price domain.StationPrice) (domain.StationPrice, error) {
	const q = `
		INSERT INTO station_prices (station_id, fuel_type_id, price, reported_at, status, reported_by)
		VALUES (@station_id, @fuel_type_id, @price, @reported_at, @status, @reported_by)
		RETURNING ` + priceColumns

	args := pgx.NamedArgs{
		"station_id":   price.StationID,
		"fuel_type_id": price.FuelTypeID,
		"price":        price.Price,
		"reported_at":  price.ReportedAt,
		"status":       price.Status,
		"reported_by":  price.ReportedBy,
	}

	result, err := scanPrice(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.StationPrice{}, fmt.Errorf("repo.PriceRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgPriceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.StationPrice, error) {
	const q = `SELECT ` + priceColumns + ` FROM station_prices WHERE id = @id`

	result, err := scanPrice(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.StationPrice{}, fmt.Errorf("repo.PriceRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgPriceRepo) LatestActive(ctx context.Context, stationID, fuelTypeID uuid.UUID) (domain.StationPrice, error) {
	const q = `
		SELECT ` + priceColumns + `
		FROM station_prices
		WHERE station_id = @station_id AND fuel_type_id = @fuel_type_id AND status = 'ACTIVE'
		ORDER BY reported_at DESC
		LIMIT 1`

	args := pgx.NamedArgs{"station_id": stationID, "fuel_type_id": fuelTypeID}
	result, err := scanPrice(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.StationPrice{}, fmt.Errorf("repo.PriceRepo.LatestActive: %w", mapError(err))
	}
	return result, nil
}

func (r *pgPriceRepo) ListByStation(ctx context.Context, stationID uuid.UUID) ([]domain.StationPrice, error) {
	const q = `SELECT ` + priceColumns + ` FROM station_prices WHERE station_id = @station_id ORDER BY reported_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"station_id": stationID})
	if err != nil {
		return nil, fmt.Errorf("repo.PriceRepo.ListByStation: %w", err)
	}
	defer rows.Close()

	var prices []domain.StationPrice
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PriceRepo.ListByStation: scan: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PriceRepo.ListByStation: rows: %w", err)
	}
	return prices, nil
}

func (r *pgPriceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PriceStatus) error {
	const q = `UPDATE station_prices SET status = @status, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": status})
	if err != nil {
		return fmt.Errorf("repo.PriceRepo.UpdateStatus: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PriceRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgPriceRepo) ApplyChanges(ctx context.Context, id uuid.UUID, changes domain.PriceChanges) error {
	const q = `
		UPDATE station_prices
		SET price      = COALESCE(@price, price),
		    updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "price": changes.Price})
	if err != nil {
		return fmt.Errorf("repo.PriceRepo.ApplyChanges: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PriceRepo.ApplyChanges: %w", domain.ErrNotFound)
	}
	return nil
}

// scanPrice maps a single database row into a domain.StationPrice.
func scanPrice(s scanner) (domain.StationPrice, error) {
	var (
		p   domain.StationPrice
		id  pgtype.UUID
		sid pgtype.UUID
		fid pgtype.UUID
		rb  pgtype.UUID
	)
	err := s.Scan(&id, &sid, &fid, &p.Price, &p.ReportedAt, &p.Status, &rb, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.StationPrice{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.StationID = uuid.UUID(sid.Bytes)
	p.FuelTypeID = uuid.UUID(fid.Bytes)
	p.ReportedBy = uuid.UUID(rb.Bytes)
	return p, nil
}
