package domain

// Role represents a caller's role, mirrored from the identity provider's
// role claim.
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one the system knows about.
func (r Role) Valid() bool {
	return r == RoleVoter || r == RoleAdmin
}

// Caller identifies the authenticated principal behind a request.
// Every core operation receives it explicitly; there is no ambient
// session state below the HTTP layer.
type Caller struct {
	SubjectID string
	Role      Role
	Name      string
	Email     string
	ImageURL  string
}

// IsAdmin reports whether the caller carries the admin role claim.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsVoter reports whether the caller carries the voter role claim.
func (c Caller) IsVoter() bool {
	return c.Role == RoleVoter
}
