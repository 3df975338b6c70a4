package clients

import (
	"context"
	"epicq/lib/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// loadAWSConfig loads the default AWS configuration for the service region,
// pointing at LocalStack when running locally
func loadAWSConfig(isLocal bool) aws.Config {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(constants.AWS_REGION),
	)
	if err != nil {
		panic("failed to load AWS configuration: " + err.Error())
	}

	if isLocal {
		cfg.BaseEndpoint = aws.String(constants.LOCALSTACK_ENDPOINT)
	}
	return cfg
}

func NewSSMClient(isLocal bool) *ssm.Client {
	return ssm.NewFromConfig(loadAWSConfig(isLocal))
}
