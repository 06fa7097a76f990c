package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepo reads the minimal user data the core needs: the role string used
// for permission lookups. Account management itself lives outside this
// service.
type UserRepo interface {
	// Role returns the user's role name.
	// Returns domain.ErrNotFound if the user does not exist.
	Role(ctx context.Context, userID uuid.UUID) (string, error)

	// Permissions returns the permission strings granted to a role.
	Permissions(ctx context.Context, role string) ([]string, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Role(ctx context.Context, userID uuid.UUID) (string, error) {
	const q = `SELECT role FROM users WHERE id = @id`

	var role string
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": userID}).Scan(&role); err != nil {
		return "", fmt.Errorf("repo.UserRepo.Role: %w", mapError(err))
	}
	return role, nil
}

func (r *pgUserRepo) Permissions(ctx context.Context, role string) ([]string, error) {
	const q = `SELECT permission FROM role_permissions WHERE role = @role ORDER BY permission`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"role": role})
	if err != nil {
		return nil, fmt.Errorf("repo.UserRepo.Permissions: %w", err)
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("repo.UserRepo.Permissions: scan: %w", err)
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.UserRepo.Permissions: rows: %w", err)
	}
	return perms, nil
}
