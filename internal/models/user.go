package models

// UserRole represents the roles allowed to operate the console.
type UserRole string

const (
	RoleWarden UserRole = "warden"
	RoleAdmin  UserRole = "admin"
)

// User is the authenticated session owner.
type User struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	Avatar string   `json:"avatar"`

	// SessionID changes on every login and is carried as the token id.
	SessionID string `json:"sessionId,omitempty"`
}
