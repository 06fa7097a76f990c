// Package repo contains all database access logic for the fuelbook API.
// Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB additionally supports starting transactions. Both *pgxpool.Pool and
// pgx.Tx satisfy it; beginning on a pgx.Tx opens a savepoint, which keeps the
// tx-rollback test isolation working for code that runs inside Store.WithTx.
type DB interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewPool opens a pgx connection pool for the given DSN with the
// shopspring decimal codec registered on every connection, so NUMERIC
// columns scan directly into decimal.Decimal.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.NewPool: parse config: %w", err)
	}
	cfg.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("repo.NewPool: %w", err)
	}
	return pool, nil
}

// Repos bundles one repository per resource, all bound to the same db handle.
type Repos struct {
	Stations  StationRepo
	Prices    PriceRepo
	Proposals ProposalRepo
	Reviews   ReviewRepo
	Vehicles  VehicleRepo
	Trips     TripRepo
	Fuelings  FuelingRepo
	FuelTypes FuelTypeRepo
	Users     UserRepo
}

// NewRepos constructs all repositories over the provided db handle.
func NewRepos(db db) *Repos {
	return &Repos{
		Stations:  NewStationRepo(db),
		Prices:    NewPriceRepo(db),
		Proposals: NewProposalRepo(db),
		Reviews:   NewReviewRepo(db),
		Vehicles:  NewVehicleRepo(db),
		Trips:     NewTripRepo(db),
		Fuelings:  NewFuelingRepo(db),
		FuelTypes: NewFuelTypeRepo(db),
		Users:     NewUserRepo(db),
	}
}

// Store is the transactional entry point the service layer depends on.
// Reads outside a transaction go through Repos(); every multi-row mutation
// goes through WithTx.
type Store struct {
	repos *Repos
	db    DB
}

// NewStore constructs a Store. In production pass the *pgxpool.Pool from
// NewPool; in integration tests pass a pgx.Tx for rollback isolation.
func NewStore(db DB) *Store {
	return &Store{repos: NewRepos(db), db: db}
}

// Repos returns the repositories bound to the store's base db handle, for
// reads that do not need transaction scope.
func (s *Store) Repos() *Repos {
	return s.repos
}

// WithTx runs fn against a Repos bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise, so all
// writes inside fn succeed or fail together.
func (s *Store) WithTx(ctx context.Context, fn func(r *Repos) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.Store.WithTx: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.Store.WithTx: commit: %w", err)
	}
	return nil
}

// Postgres error codes surfaced as typed domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// mapError translates low-level pgx errors into domain sentinels:
// unique-constraint violations become ErrConflict (e.g. a second pending
// proposal for the same entity), foreign-key and check violations become
// ErrValidation (a referenced fuel type is missing, or a column constraint
// like cost > 0 is broken), and pgx.ErrNoRows becomes ErrNotFound.
// Anything else passes through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referenced row missing (%s)", domain.ErrValidation, pgErr.ConstraintName)
		case pgCheckViolation:
			return fmt.Errorf("%w: check constraint (%s)", domain.ErrValidation, pgErr.ConstraintName)
		}
	}
	return err
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers in this package to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}
