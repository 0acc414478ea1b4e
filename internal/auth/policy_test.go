package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"forumhub/internal/models"
)

func user(id string, r models.Role, banned bool) *models.User {
	return &models.User{ID: id, Role: r, Banned: banned}
}

func TestCanPost(t *testing.T) {
	open := &models.Forum{RequiresRole: models.RoleMember}
	vipOnly := &models.Forum{RequiresRole: models.RoleVIP}

	assert.True(t, CanPost(user("a", models.RoleMember, false), open))
	assert.False(t, CanPost(user("a", models.RoleMember, false), vipOnly))
	assert.True(t, CanPost(user("a", models.RoleVIP, false), vipOnly))
	assert.True(t, CanPost(user("a", models.RoleAdmin, false), vipOnly))
	assert.False(t, CanPost(user("a", models.RoleAdmin, true), open))
	assert.False(t, CanPost(nil, open))
	assert.False(t, CanPost(user("a", models.RoleAdmin, false), nil))
	assert.True(t, CanPost(user("a", models.RoleMember, false), &models.Forum{}))
}

func TestCanView(t *testing.T) {
	open := &models.Forum{RequiresRole: models.RoleMember}
	staff := &models.Forum{RequiresRole: models.RoleModerator}

	assert.True(t, CanView(nil, open))
	assert.False(t, CanView(nil, staff))
	assert.False(t, CanView(user("a", models.RoleVIP, false), staff))
	assert.True(t, CanView(user("a", models.RoleModerator, false), staff))
	assert.True(t, CanView(user("a", models.RoleMember, true), open))
}

func TestModerateAndAdminister(t *testing.T) {
	for _, tc := range []struct {
		u          *models.User
		mod, admin bool
	}{
		{nil, false, false},
		{user("a", models.RoleMember, false), false, false},
		{user("a", models.RoleVIP, false), false, false},
		{user("a", models.RoleModerator, false), true, false},
		{user("a", models.RoleAdmin, false), true, true},
		{user("a", models.RoleAdmin, true), false, false},
		{user("a", models.Role("superuser"), false), false, false},
	} {
		assert.Equal(t, tc.mod, CanModerate(tc.u), "%+v", tc.u)
		assert.Equal(t, tc.admin, CanAdminister(tc.u), "%+v", tc.u)
	}
}

func TestCanEdit(t *testing.T) {
	assert.True(t, CanEdit(user("a", models.RoleMember, false), "a"))
	assert.False(t, CanEdit(user("a", models.RoleMember, false), "b"))
	assert.True(t, CanEdit(user("m", models.RoleModerator, false), "b"))
	assert.False(t, CanEdit(user("a", models.RoleMember, true), "a"))
	assert.False(t, CanEdit(nil, "a"))
}
