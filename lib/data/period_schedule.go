package data

import (
	"epicq/lib/models"
	"fmt"
	"time"
)

const (
	// SchedulePeriodDays is the inclusive length of a strictly scheduled period (Monday to Sunday)
	SchedulePeriodDays = 7

	// ScheduleSpacingMonths is the minimum gap between the starts of two periods of one hospital
	ScheduleSpacingMonths = 4
)

// ValidatePeriodSchedule applies the strict scheduling rules: the period starts on a Monday,
// lasts exactly SchedulePeriodDays calendar days, does not overlap any sibling period and
// starts at least ScheduleSpacingMonths away from every sibling's start.
//
// Only enforced when STRICT_PERIOD_SCHEDULE is enabled; the default creation path checks
// date ordering and the past-start rule only.
func ValidatePeriodSchedule(start, end time.Time, siblings []models.RecruitmentPeriod) error {
	start, end = models.DateOnly(start), models.DateOnly(end)

	if start.Weekday() != time.Monday {
		return newValidationError("start_date", "must be a Monday")
	}
	if !end.Equal(start.AddDate(0, 0, SchedulePeriodDays-1)) {
		return newValidationError("end_date", fmt.Sprintf("period must span exactly %d days", SchedulePeriodDays))
	}

	for _, sibling := range siblings {
		siblingStart, siblingEnd := models.DateOnly(sibling.StartDate), models.DateOnly(sibling.EndDate)

		if !start.After(siblingEnd) && !siblingStart.After(end) {
			return newValidationError("start_date", fmt.Sprintf("overlaps period %d", sibling.PeriodNumber))
		}

		earlier, later := siblingStart, start
		if start.Before(siblingStart) {
			earlier, later = start, siblingStart
		}
		if later.Before(earlier.AddDate(0, ScheduleSpacingMonths, 0)) {
			return newValidationError("start_date",
				fmt.Sprintf("must start at least %d months apart from period %d", ScheduleSpacingMonths, sibling.PeriodNumber))
		}
	}
	return nil
}
