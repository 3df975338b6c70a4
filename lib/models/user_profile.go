// Package models defines the data structures used throughout the EPIC-Q backend.
// These models map directly to the PostgreSQL schema and are used for:
// 1. Database queries and result mapping
// 2. JWT token generation (via Token Customizer Lambda)
// 3. API responses and inter-service communication
package models

import "database/sql"

// UserProfile represents the flattened user view consumed by the token customizer.
// Coordinators are scoped to a single hospital in their claims; when a coordinator holds
// several active assignments the oldest one is used.
type UserProfile struct {
	UserID     int64          `json:"user_id"`               // Primary key from users.id
	Email      string         `json:"email"`                 // User's email address
	Name       string         `json:"name"`                  // Display name
	Role       string         `json:"role"`                  // 'admin' or 'coordinator'
	IsActive   bool           `json:"is_active"`             // Account-level active flag
	CognitoID  sql.NullString `json:"cognito_id,omitempty"`  // Cognito sub
	HospitalID sql.NullInt64  `json:"hospital_id,omitempty"` // Hospital of the primary coordinator assignment
}
