package domain

import "time"

// UserType classifies a voter for eligibility checks
type UserType string

const (
	UserTypeStudent     UserType = "STUDENT"
	UserTypeFaculty     UserType = "FACULTY"
	UserTypeNonTeaching UserType = "NON_TEACHING"
)

// Valid reports whether the user type is a known classification
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeFaculty, UserTypeNonTeaching:
		return true
	}
	return false
}

// Role represents the access level carried by an authenticated principal
type Role string

const (
	RoleVoter Role = "VOTER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered voter or candidate identity
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UserType  UserType  `json:"user_type"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated identity extracted from a validated token.
// It is carried explicitly through the request context by the auth middleware;
// nothing in the service layer reads ambient session state.
type Principal struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	UserType UserType `json:"user_type"`
	Role     Role     `json:"role"`
}

// IsAdmin reports whether the principal may perform administrative actions
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
