package data

import (
	"context"
	"epicq/lib/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/sirupsen/logrus"
)

type SSMRepository interface {
	GetParameters() (map[string]string, error)
}

type SSMClientInterface interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

type SSMDao struct {
	SSM    SSMClientInterface
	Logger *logrus.Logger
}

// GetParameters loads every parameter under the /epicq path, following pagination
func (client *SSMDao) GetParameters() (map[string]string, error) {
	params := map[string]string{}
	input := &ssm.GetParametersByPathInput{
		Path:           aws.String(constants.SSM_PARAMETER_PATH),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	}

	for {
		output, err := client.SSM.GetParametersByPath(context.TODO(), input)
		if err != nil {
			return nil, err
		}

		for _, param := range output.Parameters {
			params[*param.Name] = *param.Value
		}

		if output.NextToken == nil {
			break
		}
		input.NextToken = output.NextToken
	}

	if client.Logger != nil {
		client.Logger.WithFields(logrus.Fields{
			"operation":    "GetParameters",
			"params_count": len(params),
		}).Debug("Loaded SSM parameters")
	}
	return params, nil
}
