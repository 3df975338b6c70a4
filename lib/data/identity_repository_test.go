package data

import (
	"context"
	"epicq/lib/testutil"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
)

// MockCognitoClient is a mock implementation of CognitoAPI
type MockCognitoClient struct {
	Failures map[string]error
	Deleted  []string
	PoolIDs  []string
}

func (m *MockCognitoClient) AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error) {
	m.PoolIDs = append(m.PoolIDs, *params.UserPoolId)
	if err, ok := m.Failures[*params.Username]; ok {
		return nil, err
	}
	m.Deleted = append(m.Deleted, *params.Username)
	return &cognitoidentityprovider.AdminDeleteUserOutput{}, nil
}

func TestDeleteIdentities_Success(t *testing.T) {
	//Arrange
	mockClient := &MockCognitoClient{}
	dao := &CognitoIdentityDao{Client: mockClient, UserPoolID: "us-east-2_pool", Logger: testutil.TestLogger()}

	//Act
	err := dao.DeleteIdentities(context.Background(), []string{"sub-1", "sub-2"})

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"sub-1", "sub-2"}, mockClient.Deleted)
	assert.Equal(t, []string{"us-east-2_pool", "us-east-2_pool"}, mockClient.PoolIDs)
}

func TestDeleteIdentities_AlreadyAbsentIsSuccess(t *testing.T) {
	//Arrange
	mockClient := &MockCognitoClient{Failures: map[string]error{
		"sub-1": &types.UserNotFoundException{Message: stringPtr("User does not exist.")},
	}}
	dao := &CognitoIdentityDao{Client: mockClient, UserPoolID: "pool", Logger: testutil.TestLogger()}

	//Act
	err := dao.DeleteIdentities(context.Background(), []string{"sub-1", "sub-2"})

	//Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"sub-2"}, mockClient.Deleted)
}

func TestDeleteIdentities_CollectsFailures(t *testing.T) {
	//Arrange
	throttled := errors.New("throttled")
	mockClient := &MockCognitoClient{Failures: map[string]error{
		"sub-1": throttled,
		"sub-3": errors.New("access denied"),
	}}
	dao := &CognitoIdentityDao{Client: mockClient, UserPoolID: "pool", Logger: testutil.TestLogger()}

	//Act
	err := dao.DeleteIdentities(context.Background(), []string{"sub-1", "sub-2", "sub-3"})

	//Assert
	assert.Error(t, err)
	assert.True(t, errors.Is(err, throttled))
	assert.Contains(t, err.Error(), "cognito user sub-3: access denied")
	assert.Equal(t, []string{"sub-2"}, mockClient.Deleted)
}

func stringPtr(s string) *string {
	return &s
}
