package main

import (
	"context"
	"epicq/lib/clients"
	"epicq/lib/constants"
	"epicq/lib/data"
	"epicq/lib/util"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Handler answers CORS preflight requests for the EPIC-Q API
type Handler struct {
	AllowedOrigins []string
	Logger         *logrus.Logger
}

var (
	logger        *logrus.Logger
	isLocal       bool
	ssmRepository data.SSMRepository
	ssmParams     map[string]string
	handler       *Handler
)

func LambdaHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return handler.HandleRequest(ctx, request)
}

func main() {
	setup()
	lambda.Start(LambdaHandler)
}

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
			"error": err.Error(),
		}).Fatal("Error while getting ssm params from param store")
	}

	handler = &Handler{
		AllowedOrigins: parseOrigins(ssmParams[constants.ALLOWED_ORIGINS]),
		Logger:         logger,
	}
}

// parseOrigins splits the comma separated ALLOWED_ORIGINS parameter
func parseOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
