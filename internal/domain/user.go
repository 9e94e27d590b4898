package domain

import (
	"fmt"
	"time"
)

// Role is the capability tier of a user. Tiers are ordered: unit < tech < admin.
type Role string

const (
	RoleUnit  Role = "unit"
	RoleTech  Role = "tech"
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleUnit:  1,
	RoleTech:  2,
	RoleAdmin: 3,
}

// Roles lists every role from the lowest tier to the highest.
func Roles() []Role {
	return []Role{RoleUnit, RoleTech, RoleAdmin}
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}

	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants every capability of min.
// An unknown role never satisfies any tier.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}

	return rank >= roleRank[min]
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	UnitID    *uint     `json:"unit_id,omitempty"`
	Unit      *Unit     `json:"unit,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Can(min Role) bool {
	return u.Role.AtLeast(min)
}

// UnitName returns the owning unit's name, or an empty string for staff accounts.
func (u User) UnitName() string {
	if u.Unit == nil {
		return ""
	}

	return u.Unit.Name
}
