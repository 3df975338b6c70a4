package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for recruitment period dates
const DateLayout = "2006-01-02"

// Derived recruitment period statuses
const (
	PeriodStatusPlanned   = "planned"
	PeriodStatusActive    = "active"
	PeriodStatusCompleted = "completed"
)

// RecruitmentPeriod is a dated window during which a hospital recruits study subjects.
// Status is derived from the dates on every read and is never persisted.
type RecruitmentPeriod struct {
	RecruitmentPeriodID int64     `json:"recruitment_period_id"` // Primary key from recruitment_periods.id
	ProjectHospitalID   int64     `json:"project_hospital_id"`   // Owning participation
	PeriodNumber        int       `json:"period_number"`         // Sequential per ProjectHospital, starting at 1
	StartDate           time.Time `json:"-"`
	EndDate             time.Time `json:"-"`
	Status              string    `json:"status"` // Derived: planned, active or completed
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DateOnly truncates t to midnight UTC of its UTC calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeriveStatus computes the status of a period spanning [start, end] at the given instant.
// Both bounds are inclusive calendar days.
func DeriveStatus(start, end, now time.Time) string {
	today := DateOnly(now)
	switch {
	case today.Before(DateOnly(start)):
		return PeriodStatusPlanned
	case today.After(DateOnly(end)):
		return PeriodStatusCompleted
	default:
		return PeriodStatusActive
	}
}

// WithStatus returns a copy of the period with Status derived at now
func (p RecruitmentPeriod) WithStatus(now time.Time) RecruitmentPeriod {
	p.Status = DeriveStatus(p.StartDate, p.EndDate, now)
	return p
}

// recruitmentPeriodJSON carries dates in DateLayout on the wire
type recruitmentPeriodJSON struct {
	RecruitmentPeriodID int64     `json:"recruitment_period_id"`
	ProjectHospitalID   int64     `json:"project_hospital_id"`
	PeriodNumber        int       `json:"period_number"`
	StartDate           string    `json:"start_date"`
	EndDate             string    `json:"end_date"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// MarshalJSON renders start_date and end_date as YYYY-MM-DD
func (p RecruitmentPeriod) MarshalJSON() ([]byte, error) {
	return json.Marshal(recruitmentPeriodJSON{
		RecruitmentPeriodID: p.RecruitmentPeriodID,
		ProjectHospitalID:   p.ProjectHospitalID,
		PeriodNumber:        p.PeriodNumber,
		StartDate:           p.StartDate.Format(DateLayout),
		EndDate:             p.EndDate.Format(DateLayout),
		Status:              p.Status,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	})
}

// RecruitmentPeriodRequest is the payload for creating or updating a period.
// Any status sent by the client is ignored.
type RecruitmentPeriodRequest struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// RecruitmentPeriodListResponse represents the periods of a ProjectHospital with progress
type RecruitmentPeriodListResponse struct {
	ProjectHospitalID  int64               `json:"project_hospital_id"`
	Periods            []RecruitmentPeriod `json:"periods"`
	Total              int                 `json:"total"`
	MaxPeriods         int                 `json:"max_periods"`
	RequiredPeriods    int                 `json:"required_periods"`
	CanAddPeriod       bool                `json:"can_add_period"`
	ActivePeriodNumber *int                `json:"active_period_number,omitempty"`
}
