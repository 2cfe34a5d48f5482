package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"posterm/internal/model"
)

func TestCapabilityMatches(t *testing.T) {
	assert.True(t, Capability("products:create").Matches("products:create"))
	assert.False(t, Capability("products:create").Matches("products:delete"))

	assert.True(t, WildcardAll.Matches("anything:at-all"))
	assert.True(t, Capability("products:*").Matches("products:delete"))
	assert.False(t, Capability("products:*").Matches("sales:cancel"))

	// "*" must be the action segment, not a substring
	assert.False(t, Capability("products:cre*").Matches("products:create"))
}

func TestFromUserOwnerAndAdmin(t *testing.T) {
	for _, role := range []string{"owner", "admin"} {
		caps := FromUser(&model.User{Role: role})
		assert.True(t, caps.Has("products:manage"), role)
		assert.True(t, caps.Has("sales:cancel"), role)
	}
}

func TestFromUserPermissionList(t *testing.T) {
	caps := FromUser(&model.User{
		Role:        "cashier",
		Permissions: []string{"sales:*", "products:read"},
	})

	assert.True(t, caps.Has("sales:create"))
	assert.True(t, caps.Has("products:read"))
	assert.False(t, caps.Has("products:manage"))
	assert.False(t, caps.Has("customers:manage"))
}

func TestFromUserNil(t *testing.T) {
	caps := FromUser(nil)
	assert.False(t, caps.Has("sales:create"))
}
