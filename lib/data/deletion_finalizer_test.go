package data

import (
	"context"
	"epicq/lib/testutil"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeDeletion_Success(t *testing.T) {
	//Arrange
	mockS3 := NewMockS3Client()
	mockCognito := &MockCognitoClient{}
	archive := &S3DeletionArchiveDao{S3: mockS3, Logger: testutil.TestLogger()}
	identity := &CognitoIdentityDao{Client: mockCognito, UserPoolID: "pool", Logger: testutil.TestLogger()}
	result := sampleDeletionResult()

	//Act
	response := FinalizeDeletion(context.Background(), result, archive, identity, testutil.TestLogger())

	//Assert
	assert.Same(t, result, response.Result)
	assert.True(t, strings.HasPrefix(response.ArchiveKey, "deletions/hospital/42/"))
	assert.Contains(t, mockS3.Objects, response.ArchiveKey)
	assert.Equal(t, []string{"sub-7"}, mockCognito.Deleted)
	assert.Empty(t, response.Warnings)
}

func TestFinalizeDeletion_FailuresBecomeWarnings(t *testing.T) {
	//Arrange
	mockS3 := NewMockS3Client()
	mockS3.PutErr = errors.New("bucket unavailable")
	mockCognito := &MockCognitoClient{Failures: map[string]error{"sub-7": errors.New("throttled")}}
	archive := &S3DeletionArchiveDao{S3: mockS3, Logger: testutil.TestLogger()}
	identity := &CognitoIdentityDao{Client: mockCognito, UserPoolID: "pool", Logger: testutil.TestLogger()}

	//Act
	response := FinalizeDeletion(context.Background(), sampleDeletionResult(), archive, identity, testutil.TestLogger())

	//Assert
	require.NotNil(t, response.Result)
	assert.Empty(t, response.ArchiveKey)
	assert.Equal(t, []string{
		"Some deleted users could not be removed from the login service",
		"Deletion record could not be archived",
	}, response.Warnings)
}

func TestFinalizeDeletion_Unconfigured(t *testing.T) {
	//Act
	response := FinalizeDeletion(context.Background(), sampleDeletionResult(), nil, nil, testutil.TestLogger())

	//Assert
	assert.Empty(t, response.ArchiveKey)
	assert.Empty(t, response.Warnings)
}
