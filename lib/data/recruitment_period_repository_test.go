package data

import (
	"context"
	"database/sql"
	"epicq/lib/models"
	"epicq/lib/testutil"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// periodNow is a Monday
var periodNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func day(offset int) string {
	return periodNow.AddDate(0, 0, offset).Format(models.DateLayout)
}

func newPeriodDao(t *testing.T) (*RecruitmentPeriodDao, *sql.DB, *testutil.Fixtures, int64) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	f := testutil.NewFixtures(t, db)
	phID := f.CreateProjectHospital(f.CreateProject("EPIC-Q"), f.CreateHospital("St. Mary"), models.ProjectHospitalStatusActive)

	dao := &RecruitmentPeriodDao{
		DB:         db,
		Logger:     testutil.TestLogger(),
		MaxPeriods: 2,
		Now:        testutil.FixedClock(periodNow),
	}
	return dao, db, f, phID
}

func TestCreatePeriod_Success(t *testing.T) {
	//Arrange
	dao, db, _, phID := newPeriodDao(t)

	//Act
	period, err := dao.CreatePeriod(context.Background(), phID, &models.RecruitmentPeriodRequest{
		StartDate: day(1),
		EndDate:   day(8),
	})

	//Assert
	require.NoError(t, err)
	assert.NotZero(t, period.RecruitmentPeriodID)
	assert.Equal(t, 1, period.PeriodNumber)
	assert.Equal(t, models.PeriodStatusPlanned, period.Status)
	assert.Equal(t, day(1), period.StartDate.Format(models.DateLayout))
	assert.Equal(t, day(8), period.EndDate.Format(models.DateLayout))
	assert.Equal(t, 1, testutil.CountRows(t, db, "recruitment_periods", "project_hospital_id = $1", phID))
}

func TestCreatePeriod_StartingTodayIsActive(t *testing.T) {
	//Arrange
	dao, _, _, phID := newPeriodDao(t)

	//Act
	period, err := dao.CreatePeriod(context.Background(), phID, &models.RecruitmentPeriodRequest{
		StartDate: day(0),
		EndDate:   day(6),
	})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusActive, period.Status)
}

func TestCreatePeriod_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   *models.RecruitmentPeriodRequest
		field string
	}{
		{"start in the past", &models.RecruitmentPeriodRequest{StartDate: day(-1), EndDate: day(6)}, "start_date"},
		{"end equals start", &models.RecruitmentPeriodRequest{StartDate: day(3), EndDate: day(3)}, "end_date"},
		{"end before start", &models.RecruitmentPeriodRequest{StartDate: day(5), EndDate: day(2)}, "end_date"},
		{"malformed start", &models.RecruitmentPeriodRequest{StartDate: "03/09/2026", EndDate: day(8)}, "start_date"},
		{"missing end", &models.RecruitmentPeriodRequest{StartDate: day(1)}, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			dao, db, _, phID := newPeriodDao(t)

			//Act
			period, err := dao.CreatePeriod(context.Background(), phID, tt.req)

			//Assert
			assert.Nil(t, period)
			assert.True(t, errors.Is(err, ErrValidation))
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, 0, testutil.CountRows(t, db, "recruitment_periods", ""))
		})
	}
}

func TestCreatePeriod_LimitExceeded(t *testing.T) {
	//Arrange
	dao, db, _, phID := newPeriodDao(t)
	ctx := context.Background()
	_, err := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(1), EndDate: day(8)})
	require.NoError(t, err)
	_, err = dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(120), EndDate: day(127)})
	require.NoError(t, err)

	//Act
	period, err := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(240), EndDate: day(247)})

	//Assert
	assert.Nil(t, period)
	assert.True(t, errors.Is(err, ErrLimitExceeded))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, 2, testutil.CountRows(t, db, "recruitment_periods", "project_hospital_id = $1", phID))
}

func TestCreatePeriod_ConfiguredMaximum(t *testing.T) {
	//Arrange
	dao, _, _, phID := newPeriodDao(t)
	dao.MaxPeriods = 3
	ctx := context.Background()
	for _, offset := range []int{1, 120} {
		_, err := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(offset), EndDate: day(offset + 7)})
		require.NoError(t, err)
	}

	//Act
	period, err := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(240), EndDate: day(247)})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 3, period.PeriodNumber)
}

func TestCreatePeriod_ConcurrentCreatorsRespectLimit(t *testing.T) {
	//Arrange
	dao, db, _, phID := newPeriodDao(t)
	const creators = 5

	var wg sync.WaitGroup
	errs := make([]error, creators)

	//Act
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = dao.CreatePeriod(context.Background(), phID, &models.RecruitmentPeriodRequest{
				StartDate: day(1 + i*30),
				EndDate:   day(8 + i*30),
			})
		}(i)
	}
	wg.Wait()

	//Assert
	succeeded, limited := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrLimitExceeded):
			limited++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, creators-2, limited)
	assert.Equal(t, 2, testutil.CountRows(t, db, "recruitment_periods", "project_hospital_id = $1", phID))
}

func TestCreatePeriod_NumberingAfterDelete(t *testing.T) {
	//Arrange
	dao, _, _, phID := newPeriodDao(t)
	ctx := context.Background()
	first, err := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(1), EndDate: day(8)})
	require.NoError(t, err)
	require.Equal(t, 1, first.PeriodNumber)
	require.NoError(t, dao.DeletePeriod(ctx, first.RecruitmentPeriodID))

	//Act
	again, err := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(1), EndDate: day(8)})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 1, again.PeriodNumber)
	assert.NotEqual(t, first.RecruitmentPeriodID, again.RecruitmentPeriodID)
}

func TestCreatePeriod_NumberFollowsHighestExisting(t *testing.T) {
	//Arrange
	dao, _, f, phID := newPeriodDao(t)
	ctx := context.Background()
	firstID := f.CreatePeriod(phID, 1, periodNow.AddDate(0, 0, 1), periodNow.AddDate(0, 0, 8))
	f.CreatePeriod(phID, 2, periodNow.AddDate(0, 0, 120), periodNow.AddDate(0, 0, 127))
	require.NoError(t, dao.DeletePeriod(ctx, firstID))

	//Act
	period, err := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(240), EndDate: day(247)})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 3, period.PeriodNumber)
}

func TestCreatePeriod_ProjectHospitalNotFound(t *testing.T) {
	//Arrange
	dao, db, _, _ := newPeriodDao(t)

	//Act
	period, err := dao.CreatePeriod(context.Background(), 404, &models.RecruitmentPeriodRequest{StartDate: day(1), EndDate: day(8)})

	//Assert
	assert.Nil(t, period)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 0, testutil.CountRows(t, db, "recruitment_periods", ""))
}

func TestCreatePeriod_StrictSchedule(t *testing.T) {
	//Arrange
	dao, db, _, phID := newPeriodDao(t)
	dao.StrictSchedule = true
	ctx := context.Background()

	//Act
	notMonday, notMondayErr := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(8), EndDate: day(14)})
	first, firstErr := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(7), EndDate: day(13)})
	tooClose, tooCloseErr := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(63), EndDate: day(69)})
	second, secondErr := dao.CreatePeriod(ctx, phID, &models.RecruitmentPeriodRequest{StartDate: day(133), EndDate: day(139)})

	//Assert
	assert.Nil(t, notMonday)
	assert.True(t, errors.Is(notMondayErr, ErrValidation))
	require.NoError(t, firstErr)
	assert.Equal(t, 1, first.PeriodNumber)
	assert.Nil(t, tooClose)
	assert.True(t, errors.Is(tooCloseErr, ErrValidation))
	require.NoError(t, secondErr)
	assert.Equal(t, 2, second.PeriodNumber)
	assert.Equal(t, 2, testutil.CountRows(t, db, "recruitment_periods", ""))
}

func TestListPeriods_DerivesStatusAndProgress(t *testing.T) {
	//Arrange
	dao, _, f, phID := newPeriodDao(t)
	dao.MaxPeriods = 3
	f.SetRequiredPeriods(phID, 2)
	f.CreatePeriod(phID, 1, periodNow.AddDate(0, 0, -20), periodNow.AddDate(0, 0, -13))
	f.CreatePeriod(phID, 2, periodNow.AddDate(0, 0, -2), periodNow.AddDate(0, 0, 5))

	//Act
	response, err := dao.ListPeriods(context.Background(), phID)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, phID, response.ProjectHospitalID)
	assert.Equal(t, 2, response.Total)
	assert.Equal(t, 3, response.MaxPeriods)
	assert.Equal(t, 2, response.RequiredPeriods)
	assert.True(t, response.CanAddPeriod)
	require.Len(t, response.Periods, 2)
	assert.Equal(t, models.PeriodStatusCompleted, response.Periods[0].Status)
	assert.Equal(t, models.PeriodStatusActive, response.Periods[1].Status)
	require.NotNil(t, response.ActivePeriodNumber)
	assert.Equal(t, 2, *response.ActivePeriodNumber)
}

func TestListPeriods_RequiredPeriodsClampedToMaximum(t *testing.T) {
	//Arrange
	dao, _, f, phID := newPeriodDao(t)
	f.SetRequiredPeriods(phID, 5)
	f.CreatePeriod(phID, 1, periodNow.AddDate(0, 0, 1), periodNow.AddDate(0, 0, 8))
	f.CreatePeriod(phID, 2, periodNow.AddDate(0, 0, 120), periodNow.AddDate(0, 0, 127))

	//Act
	response, err := dao.ListPeriods(context.Background(), phID)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 2, response.RequiredPeriods)
	assert.False(t, response.CanAddPeriod)
	assert.Nil(t, response.ActivePeriodNumber)
}

func TestListPeriods_EmptyAndNotFound(t *testing.T) {
	//Arrange
	dao, _, _, phID := newPeriodDao(t)

	//Act
	empty, emptyErr := dao.ListPeriods(context.Background(), phID)
	missing, missingErr := dao.ListPeriods(context.Background(), 404)

	//Assert
	require.NoError(t, emptyErr)
	assert.NotNil(t, empty.Periods)
	assert.Empty(t, empty.Periods)
	assert.True(t, empty.CanAddPeriod)
	assert.Nil(t, missing)
	assert.True(t, errors.Is(missingErr, ErrNotFound))
}

func TestUpdatePeriod_ChangesDatesAndStatus(t *testing.T) {
	//Arrange
	dao, _, f, phID := newPeriodDao(t)
	periodID := f.CreatePeriod(phID, 1, periodNow.AddDate(0, 0, 10), periodNow.AddDate(0, 0, 17))

	//Act
	updated, err := dao.UpdatePeriod(context.Background(), periodID, &models.RecruitmentPeriodRequest{
		StartDate: day(0),
		EndDate:   day(6),
	})

	//Assert
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PeriodNumber)
	assert.Equal(t, models.PeriodStatusActive, updated.Status)

	stored, err := dao.GetPeriod(context.Background(), periodID)
	require.NoError(t, err)
	assert.Equal(t, day(0), stored.StartDate.Format(models.DateLayout))
	assert.Equal(t, day(6), stored.EndDate.Format(models.DateLayout))
	assert.Equal(t, models.PeriodStatusActive, stored.Status)
}

func TestUpdatePeriod_Errors(t *testing.T) {
	//Arrange
	dao, _, f, phID := newPeriodDao(t)
	periodID := f.CreatePeriod(phID, 1, periodNow.AddDate(0, 0, 10), periodNow.AddDate(0, 0, 17))

	//Act
	_, invalidErr := dao.UpdatePeriod(context.Background(), periodID, &models.RecruitmentPeriodRequest{StartDate: day(9), EndDate: day(2)})
	_, missingErr := dao.UpdatePeriod(context.Background(), 404, &models.RecruitmentPeriodRequest{StartDate: day(1), EndDate: day(8)})

	//Assert
	assert.True(t, errors.Is(invalidErr, ErrValidation))
	assert.True(t, errors.Is(missingErr, ErrNotFound))
}

func TestDeletePeriod_NotFound(t *testing.T) {
	//Arrange
	dao, _, _, _ := newPeriodDao(t)

	//Act
	err := dao.DeletePeriod(context.Background(), 404)

	//Assert
	assert.True(t, errors.Is(err, ErrNotFound))
}
