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
	Periods data.RecruitmentPeriodRepository
	Logger  *logrus.Logger
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

	periodDao := &data.RecruitmentPeriodDao{
		DB:             sqlDB,
		Logger:         logger,
		MaxPeriods:     util.IntParam(ssmParams, constants.MAX_RECRUITMENT_PERIODS, constants.DEFAULT_MAX_RECRUITMENT_PERIODS),
		StrictSchedule: util.BoolParam(ssmParams, constants.STRICT_PERIOD_SCHEDULE, false),
	}
	handler = &Handler{
		Periods: periodDao,
		Logger:  logger,
	}

	logger.WithFields(logrus.Fields{
		"operation":       "setup",
		"max_periods":     periodDao.MaxPeriods,
		"strict_schedule": periodDao.StrictSchedule,
	}).Info("Recruitment Period Management Lambda initialization completed successfully")
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
