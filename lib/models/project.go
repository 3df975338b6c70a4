package models

import (
	"database/sql"
	"time"
)

// ProjectHospital statuses
const (
	ProjectHospitalStatusActive   = "active"
	ProjectHospitalStatusInactive = "inactive"
)

// Project represents a study a hospital can join
type Project struct {
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectHospital represents a hospital's participation in one project based on project_hospitals table
type ProjectHospital struct {
	ProjectHospitalID int64         `json:"project_hospital_id"`        // Primary key from project_hospitals.id
	ProjectID         int64         `json:"project_id"`                 // Project the hospital joined
	HospitalID        int64         `json:"hospital_id"`                // Participating hospital
	Status            string        `json:"status"`                     // 'active' or 'inactive'
	RequiredPeriods   sql.NullInt64 `json:"required_periods,omitempty"` // Periods the hospital committed to register
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// IsActive reports whether the participation blocks hospital deletion
func (ph *ProjectHospital) IsActive() bool {
	return ph.Status == ProjectHospitalStatusActive
}

// ProjectCoordinator binds a coordinator user to a hospital within a project
type ProjectCoordinator struct {
	ProjectCoordinatorID int64         `json:"project_coordinator_id"` // Primary key from project_coordinators.id
	ProjectID            int64         `json:"project_id"`
	UserID               sql.NullInt64 `json:"user_id"`     // NULL once the user has been removed
	HospitalID           sql.NullInt64 `json:"hospital_id"` // NULL once the hospital has been removed
	IsActive             bool          `json:"is_active"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// CoordinatorAssignment is an active ProjectCoordinator joined with user and hospital names
type CoordinatorAssignment struct {
	ProjectCoordinatorID int64  `json:"project_coordinator_id"`
	UserID               int64  `json:"user_id"`
	UserName             string `json:"user_name"`
	UserEmail            string `json:"user_email"`
	HospitalID           int64  `json:"hospital_id"`
	HospitalName         string `json:"hospital_name"`
}
