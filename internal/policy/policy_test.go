package policy

import (
	"testing"

	"feedstream/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestRequireAuthenticated(t *testing.T) {
	err := RequireAuthenticated(Identity{Authenticated: true, UserID: "user-123"})
	assert.NoError(t, err)
}

func TestRequireAuthenticated_Anonymous(t *testing.T) {
	err := RequireAuthenticated(Identity{})

	assert.Error(t, err)
	var authErr *apperr.AuthenticationError
	assert.ErrorAs(t, err, &authErr)
}

func TestRequireOwnership_Owner(t *testing.T) {
	id := Identity{Authenticated: true, UserID: "user-123"}

	assert.NoError(t, RequireOwnership(id, "user-123"))
}

func TestRequireOwnership_NonOwner(t *testing.T) {
	id := Identity{Authenticated: true, UserID: "user-123"}

	err := RequireOwnership(id, "user-456")

	assert.Error(t, err)
	var authzErr *apperr.AuthorizationError
	assert.ErrorAs(t, err, &authzErr)
}
