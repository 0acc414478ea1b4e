package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	for _, bad := range []string{"", "Admin", "membro", "moderador", "root"} {
		_, err := ParseRole(bad)
		assert.Error(t, err, bad)
	}
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleModerator))
	assert.True(t, RoleModerator.AtLeast(RoleModerator))
	assert.True(t, RoleVIP.AtLeast(RoleMember))
	assert.False(t, RoleVIP.AtLeast(RoleModerator))
	assert.False(t, RoleMember.AtLeast(RoleVIP))

	// empty requirement means member
	assert.True(t, RoleMember.AtLeast(""))

	assert.False(t, Role("ghost").AtLeast(RoleMember))
	assert.False(t, RoleAdmin.AtLeast(Role("ghost")))
}

func TestRolesAreTotallyOrdered(t *testing.T) {
	roles := Roles()
	for i, lo := range roles {
		for j, hi := range roles {
			assert.Equal(t, i >= j, lo.AtLeast(hi), "%s >= %s", lo, hi)
		}
	}
}
