package model

// Caller identifies the authenticated user an operation runs for
type Caller struct {
	UserID int64
	Role   Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
