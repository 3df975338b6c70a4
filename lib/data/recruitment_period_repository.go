package data

import (
	"context"
	"database/sql"
	"epicq/lib/constants"
	"epicq/lib/models"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RecruitmentPeriodRepository defines the interface for recruitment period operations
type RecruitmentPeriodRepository interface {
	// ListPeriods returns the periods of a ProjectHospital, ordered by number, with derived status and progress
	ListPeriods(ctx context.Context, projectHospitalID int64) (*models.RecruitmentPeriodListResponse, error)

	// GetPeriod retrieves a single period with derived status
	GetPeriod(ctx context.Context, periodID int64) (*models.RecruitmentPeriod, error)

	// GetProjectHospital retrieves the participation owning periods
	GetProjectHospital(ctx context.Context, projectHospitalID int64) (*models.ProjectHospital, error)

	// CreatePeriod validates and registers the next period of a ProjectHospital
	CreatePeriod(ctx context.Context, projectHospitalID int64, req *models.RecruitmentPeriodRequest) (*models.RecruitmentPeriod, error)

	// UpdatePeriod changes the dates of a period; status stays derived
	UpdatePeriod(ctx context.Context, periodID int64, req *models.RecruitmentPeriodRequest) (*models.RecruitmentPeriod, error)

	// DeletePeriod removes a period unconditionally
	DeletePeriod(ctx context.Context, periodID int64) error
}

// RecruitmentPeriodDao implements RecruitmentPeriodRepository using PostgreSQL
type RecruitmentPeriodDao struct {
	DB             *sql.DB
	Logger         *logrus.Logger
	MaxPeriods     int              // Maximum periods per ProjectHospital; DEFAULT_MAX_RECRUITMENT_PERIODS when zero
	StrictSchedule bool             // Apply ValidatePeriodSchedule on create and update
	Now            func() time.Time // Clock; time.Now when nil
}

func (dao *RecruitmentPeriodDao) now() time.Time {
	if dao.Now != nil {
		return dao.Now().UTC()
	}
	return time.Now().UTC()
}

func (dao *RecruitmentPeriodDao) maxPeriods() int {
	if dao.MaxPeriods > 0 {
		return dao.MaxPeriods
	}
	return constants.DEFAULT_MAX_RECRUITMENT_PERIODS
}

// ListPeriods returns the periods of a ProjectHospital with progress information
func (dao *RecruitmentPeriodDao) ListPeriods(ctx context.Context, projectHospitalID int64) (*models.RecruitmentPeriodListResponse, error) {
	projectHospital, err := dao.GetProjectHospital(ctx, projectHospitalID)
	if err != nil {
		return nil, err
	}

	periods, err := listPeriods(ctx, dao.DB, projectHospitalID)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"project_hospital_id": projectHospitalID,
			"error":               err.Error(),
		}).Error("Failed to list recruitment periods")
		return nil, err
	}

	now := dao.now()
	maxPeriods := dao.maxPeriods()
	response := &models.RecruitmentPeriodListResponse{
		ProjectHospitalID: projectHospitalID,
		Periods:           make([]models.RecruitmentPeriod, 0, len(periods)),
		Total:             len(periods),
		MaxPeriods:        maxPeriods,
		RequiredPeriods:   maxPeriods,
		CanAddPeriod:      len(periods) < maxPeriods,
	}
	if projectHospital.RequiredPeriods.Valid && projectHospital.RequiredPeriods.Int64 > 0 &&
		int(projectHospital.RequiredPeriods.Int64) < maxPeriods {
		response.RequiredPeriods = int(projectHospital.RequiredPeriods.Int64)
	}

	for _, period := range periods {
		period = period.WithStatus(now)
		if period.Status == models.PeriodStatusActive && response.ActivePeriodNumber == nil {
			number := period.PeriodNumber
			response.ActivePeriodNumber = &number
		}
		response.Periods = append(response.Periods, period)
	}

	return response, nil
}

// GetPeriod retrieves a single period by ID
func (dao *RecruitmentPeriodDao) GetPeriod(ctx context.Context, periodID int64) (*models.RecruitmentPeriod, error) {
	period, err := getPeriod(ctx, dao.DB, periodID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			dao.Logger.WithError(err).Error("Failed to get recruitment period")
		}
		return nil, err
	}

	withStatus := period.WithStatus(dao.now())
	return &withStatus, nil
}

// GetProjectHospital retrieves a ProjectHospital by ID
func (dao *RecruitmentPeriodDao) GetProjectHospital(ctx context.Context, projectHospitalID int64) (*models.ProjectHospital, error) {
	var ph models.ProjectHospital
	err := dao.DB.QueryRowContext(ctx, `
		SELECT id, project_id, hospital_id, status, required_periods, created_at, updated_at
		FROM project_hospitals
		WHERE id = $1
	`, projectHospitalID).Scan(
		&ph.ProjectHospitalID, &ph.ProjectID, &ph.HospitalID, &ph.Status,
		&ph.RequiredPeriods, &ph.CreatedAt, &ph.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project hospital %d: %w", projectHospitalID, ErrNotFound)
	}
	if err != nil {
		dao.Logger.WithError(err).Error("Failed to get project hospital")
		return nil, fmt.Errorf("failed to get project hospital: %w", err)
	}
	return &ph, nil
}

// CreatePeriod registers a new period. The count check and the insert share one
// transaction that first touches the parent project_hospitals row, so concurrent
// creators for the same ProjectHospital serialise on that row lock.
func (dao *RecruitmentPeriodDao) CreatePeriod(ctx context.Context, projectHospitalID int64, req *models.RecruitmentPeriodRequest) (*models.RecruitmentPeriod, error) {
	now := dao.now()
	start, end, err := parsePeriodDates(req)
	if err != nil {
		return nil, err
	}
	if err := validatePeriodDates(start, end, now); err != nil {
		return nil, err
	}

	tx, err := dao.DB.BeginTx(ctx, nil)
	if err != nil {
		dao.Logger.WithError(err).Error("Failed to start transaction for period creation")
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE project_hospitals SET updated_at = $1 WHERE id = $2
	`, now, projectHospitalID)
	if err != nil {
		dao.Logger.WithError(err).Error("Failed to lock project hospital")
		return nil, fmt.Errorf("failed to lock project hospital: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to lock project hospital: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("project hospital %d: %w", projectHospitalID, ErrNotFound)
	}

	var count, lastNumber int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(MAX(period_number), 0)
		FROM recruitment_periods
		WHERE project_hospital_id = $1
	`, projectHospitalID).Scan(&count, &lastNumber)
	if err != nil {
		dao.Logger.WithError(err).Error("Failed to count recruitment periods")
		return nil, fmt.Errorf("failed to count recruitment periods: %w", err)
	}

	if count >= dao.maxPeriods() {
		return nil, fmt.Errorf("project hospital %d already has %d of %d periods: %w",
			projectHospitalID, count, dao.maxPeriods(), ErrLimitExceeded)
	}

	if dao.StrictSchedule {
		siblings, err := listPeriods(ctx, tx, projectHospitalID)
		if err != nil {
			return nil, err
		}
		if err := ValidatePeriodSchedule(start, end, siblings); err != nil {
			return nil, err
		}
	}

	period := models.RecruitmentPeriod{
		ProjectHospitalID: projectHospitalID,
		PeriodNumber:      lastNumber + 1,
		StartDate:         start,
		EndDate:           end,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO recruitment_periods (
			project_hospital_id, period_number, start_date, end_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, period.ProjectHospitalID, period.PeriodNumber, period.StartDate, period.EndDate,
		period.CreatedAt, period.UpdatedAt).Scan(&period.RecruitmentPeriodID)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"project_hospital_id": projectHospitalID,
			"period_number":       period.PeriodNumber,
			"error":               err.Error(),
		}).Error("Failed to create recruitment period")
		return nil, fmt.Errorf("failed to create recruitment period: %w", err)
	}

	if err = tx.Commit(); err != nil {
		dao.Logger.WithError(err).Error("Failed to commit period creation transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"recruitment_period_id": period.RecruitmentPeriodID,
		"project_hospital_id":   projectHospitalID,
		"period_number":         period.PeriodNumber,
	}).Info("Successfully created recruitment period")

	period = period.WithStatus(now)
	return &period, nil
}

// UpdatePeriod changes the dates of an existing period. The count limit is not
// re-checked since an update never adds a row.
func (dao *RecruitmentPeriodDao) UpdatePeriod(ctx context.Context, periodID int64, req *models.RecruitmentPeriodRequest) (*models.RecruitmentPeriod, error) {
	now := dao.now()
	start, end, err := parsePeriodDates(req)
	if err != nil {
		return nil, err
	}
	if err := validatePeriodDates(start, end, now); err != nil {
		return nil, err
	}

	period, err := getPeriod(ctx, dao.DB, periodID)
	if err != nil {
		return nil, err
	}

	if dao.StrictSchedule {
		all, err := listPeriods(ctx, dao.DB, period.ProjectHospitalID)
		if err != nil {
			return nil, err
		}
		siblings := make([]models.RecruitmentPeriod, 0, len(all))
		for _, p := range all {
			if p.RecruitmentPeriodID != periodID {
				siblings = append(siblings, p)
			}
		}
		if err := ValidatePeriodSchedule(start, end, siblings); err != nil {
			return nil, err
		}
	}

	res, err := dao.DB.ExecContext(ctx, `
		UPDATE recruitment_periods
		SET start_date = $1, end_date = $2, updated_at = $3
		WHERE id = $4
	`, start, end, now, periodID)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"recruitment_period_id": periodID,
			"error":                 err.Error(),
		}).Error("Failed to update recruitment period")
		return nil, fmt.Errorf("failed to update recruitment period: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("recruitment period %d: %w", periodID, ErrNotFound)
	}

	period.StartDate = start
	period.EndDate = end
	period.UpdatedAt = now
	updated := period.WithStatus(now)
	return &updated, nil
}

// DeletePeriod removes a period. Numbers of remaining periods are left untouched.
func (dao *RecruitmentPeriodDao) DeletePeriod(ctx context.Context, periodID int64) error {
	res, err := dao.DB.ExecContext(ctx, `DELETE FROM recruitment_periods WHERE id = $1`, periodID)
	if err != nil {
		dao.Logger.WithError(err).Error("Failed to delete recruitment period")
		return fmt.Errorf("failed to delete recruitment period: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete recruitment period: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recruitment period %d: %w", periodID, ErrNotFound)
	}

	dao.Logger.WithField("recruitment_period_id", periodID).Info("Successfully deleted recruitment period")
	return nil
}

func getPeriod(ctx context.Context, q queryer, periodID int64) (*models.RecruitmentPeriod, error) {
	var p models.RecruitmentPeriod
	err := q.QueryRowContext(ctx, `
		SELECT id, project_hospital_id, period_number, start_date, end_date, created_at, updated_at
		FROM recruitment_periods
		WHERE id = $1
	`, periodID).Scan(
		&p.RecruitmentPeriodID, &p.ProjectHospitalID, &p.PeriodNumber,
		&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recruitment period %d: %w", periodID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recruitment period: %w", err)
	}
	p.StartDate = models.DateOnly(p.StartDate)
	p.EndDate = models.DateOnly(p.EndDate)
	return &p, nil
}

func listPeriods(ctx context.Context, q queryer, projectHospitalID int64) ([]models.RecruitmentPeriod, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, project_hospital_id, period_number, start_date, end_date, created_at, updated_at
		FROM recruitment_periods
		WHERE project_hospital_id = $1
		ORDER BY period_number ASC
	`, projectHospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recruitment periods: %w", err)
	}
	defer rows.Close()

	var periods []models.RecruitmentPeriod
	for rows.Next() {
		var p models.RecruitmentPeriod
		if err := rows.Scan(
			&p.RecruitmentPeriodID, &p.ProjectHospitalID, &p.PeriodNumber,
			&p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recruitment period: %w", err)
		}
		p.StartDate = models.DateOnly(p.StartDate)
		p.EndDate = models.DateOnly(p.EndDate)
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recruitment periods: %w", err)
	}
	return periods, nil
}

func parsePeriodDates(req *models.RecruitmentPeriodRequest) (time.Time, time.Time, error) {
	if req == nil {
		return time.Time{}, time.Time{}, newValidationError("", "start_date and end_date are required")
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, newValidationError(field, "is required")
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, newValidationError(field, "invalid format, expected YYYY-MM-DD")
	}
	return t, nil
}

// validatePeriodDates rejects a start before today and an end that is not after the start
func validatePeriodDates(start, end, now time.Time) error {
	if start.Before(models.DateOnly(now)) {
		return newValidationError("start_date", "must not be in the past")
	}
	if !end.After(start) {
		return newValidationError("end_date", "must be after start_date")
	}
	return nil
}
