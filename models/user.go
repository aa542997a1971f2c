package models

import "time"

// UserRole represents the roles a portal account can hold, corresponding
// to the ENUM in the database.
type UserRole string

const (
	RolePatron         UserRole = "patron"
	RoleJudge          UserRole = "judge"
	RoleCoordinator    UserRole = "coordinator"
	RoleSubCountyAdmin UserRole = "sub_county_admin"
	RoleCountyAdmin    UserRole = "county_admin"
	RoleRegionalAdmin  UserRole = "regional_admin"
	RoleNationalAdmin  UserRole = "national_admin"
	RoleSuperAdmin     UserRole = "super_admin"
)

// User is a portal account. A user can hold several roles at once
// (a judge may also coordinate a category); CurrentRole is the one the
// session acts under. The geographic fields scope admin accounts to
// their jurisdiction and are nil for everyone else.
type User struct {
	ID           int        `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Roles        []UserRole `json:"roles"`
	CurrentRole  UserRole   `json:"current_role"`

	// CoordinatedCategory is set while the user coordinates judging for
	// one category; cleared when the level's results are published.
	CoordinatedCategory *string `json:"coordinated_category,omitempty"`

	Region    *string `json:"region,omitempty"`
	County    *string `json:"county,omitempty"`
	SubCounty *string `json:"sub_county,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds any administrative role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleSubCountyAdmin) || u.HasRole(RoleCountyAdmin) ||
		u.HasRole(RoleRegionalAdmin) || u.HasRole(RoleNationalAdmin) ||
		u.HasRole(RoleSuperAdmin)
}

// ValidRole reports whether s is a known role value.
func ValidRole(s UserRole) bool {
	switch s {
	case RolePatron, RoleJudge, RoleCoordinator, RoleSubCountyAdmin,
		RoleCountyAdmin, RoleRegionalAdmin, RoleNationalAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
