package data

import (
	"context"
	"epicq/lib/models"
	"epicq/lib/testutil"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserProfile_CoordinatorUsesOldestActiveAssignment(t *testing.T) {
	//Arrange
	db := testutil.OpenTestDB(t)
	f := testutil.NewFixtures(t, db)
	dao := NewUserRepository(db, testutil.TestLogger())
	projectID := f.CreateProject("EPIC-Q")
	stMary := f.CreateHospital("St. Mary")
	general := f.CreateHospital("General")
	userID := f.CreateCoordinator("Ana Souza")
	retired := f.AssignCoordinator(projectID, userID, f.CreateHospital("Retired"))
	f.AssignCoordinator(projectID, userID, stMary)
	f.AssignCoordinator(projectID, userID, general)
	_, err := db.Exec(`UPDATE project_coordinators SET is_active = FALSE WHERE id = $1`, retired)
	require.NoError(t, err)

	//Act
	profile, err := dao.GetUserProfile(context.Background(), "cognito-1")

	//Assert
	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, "Ana Souza", profile.Name)
	assert.Equal(t, models.UserRoleCoordinator, profile.Role)
	require.True(t, profile.HospitalID.Valid)
	assert.Equal(t, stMary, profile.HospitalID.Int64)
}

func TestGetUserProfile_AdminHasNoHospital(t *testing.T) {
	db := testutil.OpenTestDB(t)
	f := testutil.NewFixtures(t, db)
	f.CreateUser("Admin", models.UserRoleAdmin)

	profile, err := NewUserRepository(db, testutil.TestLogger()).GetUserProfile(context.Background(), "cognito-1")

	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, profile.Role)
	assert.False(t, profile.HospitalID.Valid)
}

func TestGetUserProfile_InactiveOrUnknownIsNotFound(t *testing.T) {
	//Arrange
	db := testutil.OpenTestDB(t)
	f := testutil.NewFixtures(t, db)
	userID := f.CreateCoordinator("Ana Souza")
	_, err := db.Exec(`UPDATE users SET is_active = FALSE WHERE id = $1`, userID)
	require.NoError(t, err)
	dao := NewUserRepository(db, testutil.TestLogger())

	//Act
	_, inactiveErr := dao.GetUserProfile(context.Background(), "cognito-1")
	_, unknownErr := dao.GetUserProfile(context.Background(), "cognito-404")

	//Assert
	assert.True(t, errors.Is(inactiveErr, ErrNotFound))
	assert.True(t, errors.Is(unknownErr, ErrNotFound))
}

func TestListCoordinatorAssignments(t *testing.T) {
	//Arrange
	db := testutil.OpenTestDB(t)
	f := testutil.NewFixtures(t, db)
	dao := NewUserRepository(db, testutil.TestLogger())
	projectID := f.CreateProject("EPIC-Q")
	userID := f.CreateCoordinator("Ana Souza")
	other := f.CreateCoordinator("Bruno Lima")
	stMary := f.CreateHospital("St. Mary")
	f.AssignCoordinator(projectID, userID, stMary)
	f.AssignCoordinator(projectID, other, f.CreateHospital("General"))

	//Act
	assignments, err := dao.ListCoordinatorAssignments(context.Background(), userID)
	none, noneErr := dao.ListCoordinatorAssignments(context.Background(), 999)

	//Assert
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, stMary, assignments[0].HospitalID)
	assert.Equal(t, "St. Mary", assignments[0].HospitalName)
	require.NoError(t, noneErr)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	f := testutil.NewFixtures(t, db)
	userID := f.CreateCoordinator("Ana Souza")
	dao := NewUserRepository(db, testutil.TestLogger())

	user, err := dao.GetUser(context.Background(), userID)
	_, missingErr := dao.GetUser(context.Background(), userID+1)

	require.NoError(t, err)
	assert.Equal(t, "user1@example.com", user.Email)
	assert.True(t, user.IsCoordinator())
	assert.Equal(t, "cognito-1", user.CognitoID.String)
	assert.True(t, errors.Is(missingErr, ErrNotFound))
}
