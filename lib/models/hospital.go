package models

import (
	"time"
)

// Hospital statuses
const (
	HospitalStatusPending  = "pending"
	HospitalStatusActive   = "active"
	HospitalStatusInactive = "inactive"
)

// Hospital represents a care facility participating in the study
type Hospital struct {
	HospitalID int64     `json:"hospital_id"` // Primary key from hospitals.id
	Name       string    `json:"name"`        // Display name
	Province   string    `json:"province"`    // Province
	City       string    `json:"city"`        // City
	Status     string    `json:"status"`      // 'pending', 'active' or 'inactive'
	CreatedAt  time.Time `json:"created_at"`  // Creation timestamp
	UpdatedAt  time.Time `json:"updated_at"`  // Last update timestamp
}

// HospitalDependentTables lists the tables holding rows owned by a hospital through a
// hospital_id column. They are removed, in this order, when the hospital is deleted.
var HospitalDependentTables = []string{
	"contacts",
	"hospital_details",
	"hospital_progress",
	"case_metrics",
	"alerts",
	"communications",
}

// Alert types
const (
	AlertTypeCoordinatorRemoved = "coordinator_removed"
)

// Alert is an admin-facing notice attached to a hospital
type Alert struct {
	AlertID    int64     `json:"alert_id"`
	HospitalID int64     `json:"hospital_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
