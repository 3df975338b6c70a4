package models

import (
	"database/sql"
	"time"
)

// User roles
const (
	UserRoleAdmin       = "admin"
	UserRoleCoordinator = "coordinator"
)

// User represents a portal account based on the users table
type User struct {
	UserID              int64          `json:"user_id"`               // Primary key from users.id
	Email               string         `json:"email"`                 // Login email, unique
	Name                string         `json:"name"`                  // Display name
	Role                string         `json:"role"`                  // 'admin' or 'coordinator'
	IsActive            bool           `json:"is_active"`             // Account-level active flag
	CognitoID           sql.NullString `json:"-"`                     // Cognito sub, when the account was provisioned there
	PasswordHash        sql.NullString `json:"-"`                     // Hashed credential
	IsTemporaryPassword bool           `json:"is_temporary_password"` // Must change password on next login
	ResetToken          sql.NullString `json:"-"`                     // Password reset token
	ResetTokenExpiresAt sql.NullTime   `json:"-"`                     // Password reset token expiry
	CreatedAt           time.Time      `json:"created_at"`            // Creation timestamp
	UpdatedAt           time.Time      `json:"updated_at"`            // Last update timestamp
}

// IsCoordinator reports whether the user participates in coordinator assignments
func (u *User) IsCoordinator() bool {
	return u.Role == UserRoleCoordinator
}
