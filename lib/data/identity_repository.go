package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

// CognitoAPI is the subset of the Cognito client used to remove identities
type CognitoAPI interface {
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
}

// IdentityRepository removes login identities of deleted users
type IdentityRepository interface {
	// DeleteIdentities removes every Cognito user in cognitoIDs. Identities already absent
	// from the pool count as deleted. All failures are reported together.
	DeleteIdentities(ctx context.Context, cognitoIDs []string) error
}

// CognitoIdentityDao implements IdentityRepository on a Cognito user pool
type CognitoIdentityDao struct {
	Client     CognitoAPI
	UserPoolID string
	Logger     *logrus.Logger
}

// DeleteIdentities removes the given users from the pool
func (dao *CognitoIdentityDao) DeleteIdentities(ctx context.Context, cognitoIDs []string) error {
	var errs []error
	for _, cognitoID := range cognitoIDs {
		_, err := dao.Client.AdminDeleteUser(ctx, &cognitoidentityprovider.AdminDeleteUserInput{
			UserPoolId: aws.String(dao.UserPoolID),
			Username:   aws.String(cognitoID),
		})

		var notFound *types.UserNotFoundException
		switch {
		case err == nil:
			dao.Logger.WithField("cognito_id", cognitoID).Info("Deleted Cognito user")
		case errors.As(err, &notFound):
			dao.Logger.WithField("cognito_id", cognitoID).Warn("Cognito user already absent")
		default:
			dao.Logger.WithFields(logrus.Fields{
				"cognito_id": cognitoID,
				"error":      err.Error(),
			}).Error("Failed to delete Cognito user")
			errs = append(errs, fmt.Errorf("cognito user %s: %w", cognitoID, err))
		}
	}
	return errors.Join(errs...)
}
