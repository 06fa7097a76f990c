// Package auth implements the authorization checks the core performs before
// mutating ledger state: vehicle ownership plus role-permission lookups.
// Token issuance and user management live outside this service; only bearer
// token verification (see middleware) and permission checks happen here.
package auth

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
	"github.com/mpetkov/fuelbook/backend/internal/repo"
)

// PermVehiclesManage lets a role operate on vehicles it does not own
// (moderation/admin tooling).
const PermVehiclesManage = "vehicles:manage"

// Authorizer decides whether a user may operate on a vehicle. Owners always
// pass; other users need the vehicles:manage permission on their role.
//
// Role-permission lookups are cached per role with a TTL. The cache is
// per-process: in a multi-instance deployment a permission change can take
// up to the TTL to propagate to every instance. That staleness window is an
// accepted trade-off — permissions change rarely and the alternative is a
// shared cache dependency.
type Authorizer struct {
	users repo.UserRepo
	perms *gocache.Cache
}

// NewAuthorizer constructs an Authorizer whose permission cache entries
// expire after ttl.
func NewAuthorizer(users repo.UserRepo, ttl time.Duration) *Authorizer {
	return &Authorizer{
		users: users,
		perms: gocache.New(ttl, 2*ttl),
	}
}

// AuthorizeVehicle returns nil when userID may operate on the vehicle and
// domain.ErrAccessDenied otherwise.
func (a *Authorizer) AuthorizeVehicle(ctx context.Context, userID uuid.UUID, vehicle domain.Vehicle) error {
	if vehicle.OwnerID == userID {
		return nil
	}
	ok, err := a.hasPermission(ctx, userID, PermVehiclesManage)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("auth.Authorizer.AuthorizeVehicle: %w", domain.ErrAccessDenied)
	}
	return nil
}

// hasPermission reports whether the user's role carries the permission,
// resolving the role from the store and the permission list through the
// TTL cache.
func (a *Authorizer) hasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	role, err := a.users.Role(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("auth.Authorizer: resolve role: %w", err)
	}

	if cached, found := a.perms.Get(role); found {
		return slices.Contains(cached.([]string), permission), nil
	}

	perms, err := a.users.Permissions(ctx, role)
	if err != nil {
		return false, fmt.Errorf("auth.Authorizer: resolve permissions: %w", err)
	}
	a.perms.SetDefault(role, perms)
	return slices.Contains(perms, permission), nil
}
