package main

import (
	"context"
	"encoding/json"
	"epicq/lib/data"
	"epicq/lib/models"
	"epicq/lib/testutil"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockCascadeRepository is a mock implementation of data.CascadeRepository
type MockCascadeRepository struct {
	Plan   *models.DeletionPlan
	Result *models.DeletionResult
	Err    error
	Calls  []string
}

func (m *MockCascadeRepository) AnalyzeHospitalDeletion(ctx context.Context, hospitalID int64) (*models.DeletionPlan, error) {
	return nil, errors.New("not expected")
}

func (m *MockCascadeRepository) ExecuteHospitalDeletion(ctx context.Context, hospitalID int64, deleteCoordinators bool) (*models.DeletionResult, error) {
	return nil, errors.New("not expected")
}

func (m *MockCascadeRepository) AnalyzeCoordinatorDeletion(ctx context.Context, userID int64) (*models.DeletionPlan, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("analyze:%d", userID))
	return m.Plan, m.Err
}

func (m *MockCascadeRepository) ExecuteCoordinatorDeletion(ctx context.Context, userID int64) (*models.DeletionResult, error) {
	m.Calls = append(m.Calls, fmt.Sprintf("execute:%d", userID))
	return m.Result, m.Err
}

// MockUserRepository is a mock implementation of data.UserRepository
type MockUserRepository struct {
	Users       map[int64]*models.User
	Assignments []models.CoordinatorAssignment
}

func (m *MockUserRepository) GetUserProfile(ctx context.Context, cognitoID string) (*models.UserProfile, error) {
	return nil, data.ErrNotFound
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	if user, ok := m.Users[userID]; ok {
		return user, nil
	}
	return nil, fmt.Errorf("user %d: %w", userID, data.ErrNotFound)
}

func (m *MockUserRepository) ListCoordinatorAssignments(ctx context.Context, userID int64) ([]models.CoordinatorAssignment, error) {
	return m.Assignments, nil
}

// MockArchiveRepository is a mock implementation of data.DeletionArchiveRepository
type MockArchiveRepository struct {
	Archived []*models.DeletionResult
}

func (m *MockArchiveRepository) Archive(ctx context.Context, result *models.DeletionResult) (string, error) {
	m.Archived = append(m.Archived, result)
	return fmt.Sprintf("deletions/%s/%d/archive.json", result.Subject, result.SubjectID), nil
}

func (m *MockArchiveRepository) DownloadURL(ctx context.Context, key string) (string, error) {
	return "https://archive.example.com/" + key, nil
}

func userRequest(method, resource, userID string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod:     method,
		Resource:       resource,
		PathParameters: map[string]string{"userId": userID},
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]interface{}{
				"user_id": "1",
				"email":   "admin@example.com",
				"sub":     "cognito-admin",
				"role":    "admin",
			},
		},
	}
}

func TestHandleRequest_AnalyzeCoordinatorDeletion(t *testing.T) {
	//Arrange
	mockCascade := &MockCascadeRepository{Plan: &models.DeletionPlan{
		CanDelete: true,
		Warnings:  []string{"Hospital St. Mary will be left without an active coordinator"},
		Actions: []models.DeletionAction{
			{Type: models.ActionDeleteUser, UserID: models.Int64Ptr(5)},
			{Type: models.ActionNotifyAdmin, HospitalID: models.Int64Ptr(9)},
		},
	}}
	h := &Handler{Cascade: mockCascade, Users: &MockUserRepository{}, Logger: testutil.TestLogger()}

	//Act
	response, err := h.HandleRequest(context.Background(), userRequest(http.MethodGet, "/users/{userId}/deletion-analysis", "5"))

	//Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, []string{"analyze:5"}, mockCascade.Calls)

	var plan models.DeletionPlan
	require.NoError(t, json.Unmarshal([]byte(response.Body), &plan))
	assert.Len(t, plan.Actions, 2)
	assert.Equal(t, models.ActionNotifyAdmin, plan.Actions[1].Type)
}

func TestHandleRequest_DeleteCoordinatorArchivesResult(t *testing.T) {
	//Arrange
	mockCascade := &MockCascadeRepository{Result: &models.DeletionResult{
		Subject:        models.DeletionSubjectCoordinator,
		SubjectID:      5,
		DeletedUserIDs: []int64{5},
	}}
	mockArchive := &MockArchiveRepository{}
	h := &Handler{Cascade: mockCascade, Users: &MockUserRepository{}, Archive: mockArchive, Logger: testutil.TestLogger()}

	//Act
	response, err := h.HandleRequest(context.Background(), userRequest(http.MethodDelete, "/users/{userId}", "5"))

	//Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	require.Len(t, mockArchive.Archived, 1)
	assert.Equal(t, int64(1), mockArchive.Archived[0].ExecutedBy)

	var body models.DeletionResponse
	require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
	assert.Equal(t, "deletions/coordinator/5/archive.json", body.ArchiveKey)
}

func TestHandleRequest_DeleteCoordinatorErrors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		err        error
		wantStatus int
	}{
		{"self deletion", "1", nil, http.StatusBadRequest},
		{"not a coordinator", "5", &data.ValidationError{Field: "user_id", Message: "user 5 is not a coordinator"}, http.StatusBadRequest},
		{"missing user", "5", fmt.Errorf("user 5: %w", data.ErrNotFound), http.StatusNotFound},
		{"invalid id", "five", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCascade := &MockCascadeRepository{Err: tt.err}
			h := &Handler{Cascade: mockCascade, Users: &MockUserRepository{}, Logger: testutil.TestLogger()}

			response, err := h.HandleRequest(context.Background(), userRequest(http.MethodDelete, "/users/{userId}", tt.userID))

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, response.StatusCode)
		})
	}
}

func TestHandleRequest_GetAssignments(t *testing.T) {
	//Arrange
	users := &MockUserRepository{
		Users: map[int64]*models.User{5: {UserID: 5, Role: models.UserRoleCoordinator}},
		Assignments: []models.CoordinatorAssignment{
			{ProjectCoordinatorID: 3, UserID: 5, HospitalID: 9, HospitalName: "St. Mary"},
		},
	}
	h := &Handler{Cascade: &MockCascadeRepository{}, Users: users, Logger: testutil.TestLogger()}

	//Act
	found, err := h.HandleRequest(context.Background(), userRequest(http.MethodGet, "/users/{userId}/assignments", "5"))
	missing, _ := h.HandleRequest(context.Background(), userRequest(http.MethodGet, "/users/{userId}/assignments", "6"))

	//Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, found.StatusCode)
	assert.Contains(t, found.Body, `"hospital_name":"St. Mary"`)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHandleRequest_CoordinatorForbidden(t *testing.T) {
	//Arrange
	mockCascade := &MockCascadeRepository{}
	h := &Handler{Cascade: mockCascade, Users: &MockUserRepository{}, Logger: testutil.TestLogger()}
	request := userRequest(http.MethodDelete, "/users/{userId}", "5")
	request.RequestContext.Authorizer["role"] = "coordinator"

	//Act
	response, err := h.HandleRequest(context.Background(), request)

	//Assert
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, response.StatusCode)
	assert.Empty(t, mockCascade.Calls)
}
