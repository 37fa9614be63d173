package domain

import "time"

// Identity is the verified view of a bearer token.
type Identity struct {
	UserID    string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsAdmin reports whether the identity bypasses ownership checks.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
