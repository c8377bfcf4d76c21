// Package model contains the records kept by the store and the values derived from them
package model

// Role decides which parts of the application a user may reach
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleRepresentative Role = "Representante"
	RoleClient         Role = "Cliente"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRepresentative, RoleClient:
		return true
	}
	return false
}

// User is a login identity
type User struct {
	// ID is unique within the users table
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// Password holds the bcrypt hash, never the plain text
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UserPatch lists the user fields an update may overwrite. Nil fields are left untouched.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}
