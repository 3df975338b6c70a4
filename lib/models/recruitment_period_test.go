package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	base := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)
	start := base.AddDate(0, 0, 1)
	end := base.AddDate(0, 0, 8)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before start", base, PeriodStatusPlanned},
		{"within period", base.AddDate(0, 0, 3), PeriodStatusActive},
		{"after end", base.AddDate(0, 0, 10), PeriodStatusCompleted},
		{"start day is active", time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC), PeriodStatusActive},
		{"end day is active", time.Date(2026, 5, 12, 23, 59, 59, 0, time.UTC), PeriodStatusActive},
		{"day after end", time.Date(2026, 5, 13, 0, 0, 0, 0, time.UTC), PeriodStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(start, end, tt.now))
		})
	}
}

func TestDeriveStatus_UsesUTCCalendarDay(t *testing.T) {
	//Arrange
	start := time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	zone := time.FixedZone("UTC-5", -5*60*60)
	// 2026-05-04 21:00 locally is already 2026-05-05 in UTC
	now := time.Date(2026, 5, 4, 21, 0, 0, 0, zone)

	//Act
	status := DeriveStatus(start, end, now)

	//Assert
	assert.Equal(t, PeriodStatusActive, status)
}

func TestRecruitmentPeriod_MarshalJSON(t *testing.T) {
	//Arrange
	period := RecruitmentPeriod{
		RecruitmentPeriodID: 7,
		ProjectHospitalID:   3,
		PeriodNumber:        2,
		StartDate:           time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		EndDate:             time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
	}.WithStatus(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	//Act
	body, err := json.Marshal(period)

	//Assert
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "2026-09-07", decoded["start_date"])
	assert.Equal(t, "2026-09-13", decoded["end_date"])
	assert.Equal(t, PeriodStatusPlanned, decoded["status"])
	assert.Equal(t, float64(2), decoded["period_number"])
}
