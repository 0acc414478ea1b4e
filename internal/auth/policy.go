package auth

import "forumhub/internal/models"

// CanView reports whether u may read the forum. Anonymous visitors see
// forums open to members.
func CanView(u *models.User, f *models.Forum) bool {
	if f == nil {
		return false
	}
	if u == nil {
		return models.RoleMember.AtLeast(f.RequiresRole)
	}
	return u.Role.AtLeast(f.RequiresRole)
}

// CanPost reports whether u may start a thread in f.
func CanPost(u *models.User, f *models.Forum) bool {
	return u != nil && !u.Banned && f != nil && u.Role.AtLeast(f.RequiresRole)
}

func CanModerate(u *models.User) bool {
	return u != nil && !u.Banned && u.Role.AtLeast(models.RoleModerator)
}

func CanAdminister(u *models.User) bool {
	return u != nil && !u.Banned && u.Role == models.RoleAdmin
}

// CanEdit reports whether u may change or delete content written by
// authorID.
func CanEdit(u *models.User, authorID string) bool {
	if u == nil || u.Banned {
		return false
	}
	return u.ID == authorID || CanModerate(u)
}
