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
	Cascade  data.CascadeRepository
	Archive  data.DeletionArchiveRepository // nil when no archive bucket is configured
	Identity data.IdentityRepository        // nil when no user pool is configured
	Logger   *logrus.Logger
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

func LambdaHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return handler.HandleRequest(ctx, request)
}

func main() {
	setup()
	lambda.Start(LambdaHandler)
}

// setup runs once per cold start. It is called from main rather than init so that the
// handler tests in this package do not reach SSM or the database.
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

	if err = setupPostgresSQLClient(ssmParams); err != nil {
		logger.WithFields(logrus.Fields{
			"operation": "setup",
			"error":     err.Error(),
		}).Fatal("Error setting up PostgreSQL client")
	}

	handler = &Handler{
		Cascade: &data.CascadeDao{
			DB:     sqlDB,
			Logger: logger,
		},
		Logger: logger,
	}

	if bucket := ssmParams[constants.DELETION_ARCHIVE_BUCKET]; bucket != "" {
		handler.Archive = &data.S3DeletionArchiveDao{
			S3:     clients.NewS3Client(isLocal, bucket),
			Logger: logger,
		}
	}
	if poolID := ssmParams[constants.COGNITO_USER_POOL_ID]; poolID != "" {
		handler.Identity = &data.CognitoIdentityDao{
			Client:     clients.NewCognitoClient(isLocal),
			UserPoolID: poolID,
			Logger:     logger,
		}
	}

	logger.WithFields(logrus.Fields{
		"operation":       "setup",
		"archive_enabled": handler.Archive != nil,
		"cognito_enabled": handler.Identity != nil,
	}).Info("Hospital Management Lambda initialization completed successfully")
}

func setupPostgresSQLClient(ssmParams map[string]string) error {
	var err error

	sqlDB, err = clients.NewPostgresSQLClient(
		ssmParams[constants.DATABASE_RDS_ENDPOINT],
		ssmParams[constants.DATABASE_PORT],
		ssmParams[constants.DATABASE_NAME],
		ssmParams[constants.DATABASE_USERNAME],
		ssmParams[constants.DATABASE_PASSWORD],
		ssmParams[constants.SSL_MODE],
	)
	if err != nil {
		return fmt.Errorf("error creating PostgreSQL client: %w", err)
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		logger.WithField("operation", "setupPostgresSQLClient").Debug("PostgreSQL client initialized successfully")
	}
	return nil
}
