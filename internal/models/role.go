package models

import "fmt"

// Role is a closed set of account roles ordered member < vip < moderator < admin.
type Role string

const (
	RoleMember    Role = "member"
	RoleVIP       Role = "vip"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var roleRank = map[Role]int{
	RoleMember:    0,
	RoleVIP:       1,
	RoleModerator: 2,
	RoleAdmin:     3,
}

// Roles lists every role from lowest to highest.
func Roles() []Role {
	return []Role{RoleMember, RoleVIP, RoleModerator, RoleAdmin}
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r satisfies the minimum role min. An empty min is
// treated as member; an unknown role satisfies nothing.
func (r Role) AtLeast(min Role) bool {
	if min == "" {
		min = RoleMember
	}
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	want, ok := roleRank[min]
	if !ok {
		return false
	}
	return have >= want
}

func (r Role) String() string { return string(r) }
