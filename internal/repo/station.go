package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// StationRepo defines the persistence operations for GasStations.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type StationRepo interface {
	// Create inserts a new station and returns the persisted record.
	// Returns domain.ErrConflict if a station with the same name and
	// coordinates already exists.
	Create(ctx context.Context, station domain.GasStation) (domain.GasStation, error)

	// GetByID retrieves a single station by its UUID primary key.
	// Returns domain.ErrNotFound if no station with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.GasStation, error)

	// List returns stations ordered by created_at descending, optionally
	// filtered by status, with the total row count for pagination.
	List(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error)

	// UpdateStatus sets the station's status.
	// Returns domain.ErrNotFound if the station does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StationStatus) error

	// ApplyChanges merges a non-empty change set onto the station.
	// Nil fields in changes are left untouched.
	ApplyChanges(ctx context.Context, id uuid.UUID, changes domain.StationChanges) error
}

// pgStationRepo is the Postgres implementation of StationRepo.
type pgStationRepo struct {
	db db
}

// NewStationRepo constructs a StationRepo backed by the provided db connection.
func NewStationRepo(db db) StationRepo {
	return &pgStationRepo{db: db}
}

const stationColumns = `id, name, latitude, longitude, country, city, street, postal_code, status, created_by, created_at, updated_at`

func (r *pgStationRepo) Create(ctx context.Context, station domain.GasStation) (domain.GasStation, error) {
	const q = `
		INSERT INTO gas_stations (name, latitude, longitude, country, city, street, postal_code, status, created_by)
		VALUES (@name, @latitude, @longitude, @country, @city, @street, @postal_code, @status, @created_by)
		RETURNING ` + stationColumns

	args := pgx.NamedArgs{
		"name":        station.Name,
		"latitude":    station.Latitude,
		"longitude":   station.Longitude,
		"country":     station.Address.Country,
		"city":        station.Address.City,
		"street":      station.Address.Street,
		"postal_code": station.Address.PostalCode,
		"status":      station.Status,
		"created_by":  station.CreatedBy,
	}

	result, err := scanStation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.GasStation{}, fmt.Errorf("repo.StationRepo.Create: %w", mapError(err))
	}
	return result, nil
}

func (r *pgStationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.GasStation, error) {
	const q = `SELECT ` + stationColumns + ` FROM gas_stations WHERE id = @id`

	result, err := scanStation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.GasStation{}, fmt.Errorf("repo.StationRepo.GetByID: %w", mapError(err))
	}
	return result, nil
}

func (r *pgStationRepo) List(ctx context.Context, status *domain.StationStatus, p domain.PaginationParams) ([]domain.GasStation, int64, error) {
	const q = `
		SELECT ` + stationColumns + `, count(*) OVER () AS total
		FROM gas_stations
		WHERE @status::text IS NULL OR status = @status
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"status": status,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.StationRepo.List: %w", err)
	}
	defer rows.Close()

	var (
		stations []domain.GasStation
		total    int64
	)
	for rows.Next() {
		s, err := scanStationWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.StationRepo.List: scan: %w", err)
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.StationRepo.List: rows: %w", err)
	}
	return stations, total, nil
}

func (r *pgStationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.StationStatus) error {
	const q = `UPDATE gas_stations SET status = @status, updated_at = now() WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "status": status})
	if err != nil {
		return fmt.Errorf("repo.StationRepo.UpdateStatus: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StationRepo.UpdateStatus: %w", domain.ErrNotFound)
	}
	return nil
}

// ApplyChanges uses COALESCE so that nil change fields keep the current
// column value and non-nil ones overwrite it.
func (r *pgStationRepo) ApplyChanges(ctx context.Context, id uuid.UUID, changes domain.StationChanges) error {
	const q = `
		UPDATE gas_stations
		SET name        = COALESCE(@name, name),
		    latitude    = COALESCE(@latitude, latitude),
		    longitude   = COALESCE(@longitude, longitude),
		    country     = COALESCE(@country, country),
		    city        = COALESCE(@city, city),
		    street      = COALESCE(@street, street),
		    postal_code = COALESCE(@postal_code, postal_code),
		    updated_at  = now()
		WHERE id = @id`

	args := pgx.NamedArgs{
		"id":          id,
		"name":        changes.Name,
		"latitude":    changes.Latitude,
		"longitude":   changes.Longitude,
		"country":     nil,
		"city":        nil,
		"street":      nil,
		"postal_code": nil,
	}
	if changes.Address != nil {
		args["country"] = changes.Address.Country
		args["city"] = changes.Address.City
		args["street"] = changes.Address.Street
		args["postal_code"] = changes.Address.PostalCode
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return fmt.Errorf("repo.StationRepo.ApplyChanges: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.StationRepo.ApplyChanges: %w", domain.ErrNotFound)
	}
	return nil
}

// scanStation maps a single database row into a domain.GasStation.
func scanStation(s scanner) (domain.GasStation, error) {
	var (
		st domain.GasStation
		id pgtype.UUID
		cb pgtype.UUID
	)
	err := s.Scan(&id, &st.Name, &st.Latitude, &st.Longitude,
		&st.Address.Country, &st.Address.City, &st.Address.Street, &st.Address.PostalCode,
		&st.Status, &cb, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return domain.GasStation{}, err
	}
	st.ID = uuid.UUID(id.Bytes)
	st.CreatedBy = uuid.UUID(cb.Bytes)
	return st, nil
}

// scanStationWithTotal scans a station row that carries a trailing
// count(*) OVER () column.
func scanStationWithTotal(s scanner, total *int64) (domain.GasStation, error) {
	var (
		st domain.GasStation
		id pgtype.UUID
		cb pgtype.UUID
	)
	err := s.Scan(&id, &st.Name, &st.Latitude, &st.Longitude,
		&st.Address.Country, &st.Address.City, &st.Address.Street, &st.Address.PostalCode,
		&st.Status, &cb, &st.CreatedAt, &st.UpdatedAt, total)
	if err != nil {
		return domain.GasStation{}, err
	}
	st.ID = uuid.UUID(id.Bytes)
	st.CreatedBy = uuid.UUID(cb.Bytes)
	return st, nil
}
