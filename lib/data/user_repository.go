// Package data provides data access layer implementations for the EPIC-Q backend.
// This package contains repository interfaces and their concrete implementations
// for interacting with PostgreSQL, SSM, S3 and Cognito.
//
// Key responsibilities:
// 1. Database query execution and result mapping
// 2. Transactional cascades for hospital and coordinator deletion
// 3. Recruitment period validation and numbering
// 4. Error classification into the sentinel errors of errors.go
//
// All repositories follow the interface pattern for better testability and
// dependency injection throughout the application.
package data

import (
	"context"
	"database/sql"
	"epicq/lib/models"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// UserRepository defines the contract for user data operations.
//
// GetUserProfile uses the Cognito ID as the identifier since it is what arrives in the
// token customizer trigger; the other lookups use the internal user ID.
type UserRepository interface {
	// GetUserProfile retrieves an active user's profile by Cognito ID, including the
	// hospital of their oldest active coordinator assignment
	GetUserProfile(ctx context.Context, cognitoID string) (*models.UserProfile, error)

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// ListCoordinatorAssignments lists the active assignments of a coordinator
	ListCoordinatorAssignments(ctx context.Context, userID int64) ([]models.CoordinatorAssignment, error)
}

// UserDao implements UserRepository using PostgreSQL
type UserDao struct {
	DB     *sql.DB        // PostgreSQL database connection pool
	Logger *logrus.Logger // Structured logger for debugging
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *sql.DB, logger *logrus.Logger) UserRepository {
	return &UserDao{
		DB:     db,
		Logger: logger,
	}
}

// GetUserProfile fetches the claims-relevant view of a user.
//
// Inactive users are reported as not found so that no token is customized for them.
func (dao *UserDao) GetUserProfile(ctx context.Context, cognitoID string) (*models.UserProfile, error) {
	dao.Logger.WithFields(logrus.Fields{
		"cognito_id": cognitoID,
		"operation":  "GetUserProfile",
	}).Debug("Fetching user profile")

	var profile models.UserProfile
	err := dao.DB.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, u.role, u.is_active, u.cognito_id,
			(
				SELECT pc.hospital_id
				FROM project_coordinators pc
				WHERE pc.user_id = u.id AND pc.is_active = TRUE AND pc.hospital_id IS NOT NULL
				ORDER BY pc.created_at ASC, pc.id ASC
				LIMIT 1
			) AS hospital_id
		FROM users u
		WHERE u.cognito_id = $1 AND u.is_active = TRUE
	`, cognitoID).Scan(
		&profile.UserID,
		&profile.Email,
		&profile.Name,
		&profile.Role,
		&profile.IsActive,
		&profile.CognitoID,
		&profile.HospitalID,
	)
	if err == sql.ErrNoRows {
		dao.Logger.WithField("cognito_id", cognitoID).Warn("User not found or inactive")
		return nil, fmt.Errorf("user %s: %w", cognitoID, ErrNotFound)
	}
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"cognito_id": cognitoID,
			"error":      err.Error(),
		}).Error("Database error while fetching user profile")
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &profile, nil
}

// GetUser retrieves a user by ID
func (dao *UserDao) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := getUser(ctx, dao.DB, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		dao.Logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to get user")
	}
	return user, err
}

// ListCoordinatorAssignments lists the active assignments of a coordinator
func (dao *UserDao) ListCoordinatorAssignments(ctx context.Context, userID int64) ([]models.CoordinatorAssignment, error) {
	assignments, err := activeAssignments(ctx, dao.DB, "pc.user_id = $1", userID)
	if err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to list coordinator assignments")
		return nil, err
	}
	if assignments == nil {
		assignments = []models.CoordinatorAssignment{}
	}
	return assignments, nil
}

func getUser(ctx context.Context, q queryer, userID int64) (*models.User, error) {
	var u models.User
	err := q.QueryRowContext(ctx, `
		SELECT id, email, name, role, is_active, cognito_id, password_hash, is_temporary_password,
			reset_token, reset_token_expires_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&u.UserID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.CognitoID, &u.PasswordHash,
		&u.IsTemporaryPassword, &u.ResetToken, &u.ResetTokenExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
