package models

import "time"

// user roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// IsValidRole reports whether r is one of the allowed user roles.
func IsValidRole(r string) bool {
	return r == RoleCustomer || r == RoleAdmin
}

// GoogleUserInfo is the profile returned by the Google userinfo endpoint.
type GoogleUserInfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// User is user entity. Password holds the bcrypt hash.
type User struct {
	ID        uint64
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string
	IsBlocked bool
	Img       string
	CreatedAt time.Time
}
