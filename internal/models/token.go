package models

// TokenPayload is the identity carried by an auth token.
type TokenPayload struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	Img       string
}

// IsAdmin reports whether the identity carries the admin role.
func (p *TokenPayload) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
