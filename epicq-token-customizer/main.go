// Package main implements the Cognito Pre-Token Generation V2.0 trigger for EPIC-Q.
//
// The trigger looks up the signing-in user in the portal database and adds the claims
// the API functions authorize with: user_id, email, name, role and, for coordinators,
// hospital_id. The role is also mapped onto a Cognito group.
//
// Database failures never block sign-in. The event is returned unchanged and the API
// functions reject the resulting token for lack of a role claim.
package main

import (
	"context"
	"database/sql"
	"epicq/lib/clients"
	"epicq/lib/constants"
	"epicq/lib/data"
	"epicq/lib/util"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Handler struct contains all dependencies for the Lambda function
type Handler struct {
	Users  data.UserRepository
	Logger *logrus.Logger
}

// Global variables for Lambda cold start optimization
var (
	logger        *logrus.Logger
	isLocal       bool
	ssmRepository data.SSMRepository
	ssmParams     map[string]string
	sqlDB         *sql.DB
	handler       *Handler
)

func LambdaHandler(ctx context.Context, event events.CognitoEventUserPoolsPreTokenGenV2_0) (events.CognitoEventUserPoolsPreTokenGenV2_0, error) {
	return handler.HandleEvent(ctx, event)
}

func main() {
	setup()
	lambda.Start(LambdaHandler)
}

// setup runs once per cold start, outside init so the handler tests stay offline
func setup() {
	var err error

	isLocal, _ = strconv.ParseBool(os.Getenv("IS_LOCAL"))
	logger = util.NewLogger(os.Getenv("LOG_LEVEL"), isLocal)

	ssmRepository = &data.SSMDao{
		SSM:    clients.NewSSMClient(isLocal),
		Logger: logger,
	}

	ssmParams, err = ssmRepository.GetParameters()
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "setup",
			"error":     err.Error(),
		}).Fatal("Error while getting SSM params from parameter store")
	}

	sqlDB, err = clients.NewPostgresSQLClient(
		ssmParams[constants.DATABASE_RDS_ENDPOINT],
		ssmParams[constants.DATABASE_PORT],
		ssmParams[constants.DATABASE_NAME],
		ssmParams[constants.DATABASE_USERNAME],
		ssmParams[constants.DATABASE_PASSWORD],
		ssmParams[constants.SSL_MODE],
	)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "setup",
			"error":     fmt.Errorf("error creating PostgreSQL client: %w", err).Error(),
		}).Fatal("Error setting up PostgreSQL client")
	}

	handler = &Handler{
		Users:  data.NewUserRepository(sqlDB, logger),
		Logger: logger,
	}

	logger.WithField("operation", "setup").Info("Token Customizer Lambda initialization completed successfully")
}
