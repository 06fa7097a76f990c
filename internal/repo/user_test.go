package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetkov/fuelbook/backend/internal/domain"
)

func TestUserRepo_Role(t *testing.T) {
	r, tx := newTestRepos(t)
	userID := createUser(t, tx, "MODERATOR")

	role, err := r.Users.Role(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, "MODERATOR", role)
}

func TestUserRepo_Role_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)

	_, err := r.Users.Role(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestUserRepo_Permissions_Seeded verifies that the migration seeds the
// vehicles:manage grant for moderators and admins.
func TestUserRepo_Permissions_Seeded(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	perms, err := r.Users.Permissions(ctx, "MODERATOR")
	require.NoError(t, err)
	assert.Contains(t, perms, "vehicles:manage")

	perms, err = r.Users.Permissions(ctx, "USER")
	require.NoError(t, err)
	assert.NotContains(t, perms, "vehicles:manage")
}
