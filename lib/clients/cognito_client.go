package clients

import (
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

func NewCognitoClient(isLocal bool) *cognitoidentityprovider.Client {
	return cognitoidentityprovider.NewFromConfig(loadAWSConfig(isLocal))
}
