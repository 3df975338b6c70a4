package constants

const (
	ALLOWED_ORIGINS         = "/epicq/ALLOWED_ORIGINS"
	DATABASE_RDS_ENDPOINT   = "/epicq/DATABASE_RDS_ENDPOINT"
	DATABASE_PORT           = "/epicq/DATABASE_PORT"
	DATABASE_NAME           = "/epicq/DATABASE_NAME"
	DATABASE_USERNAME       = "/epicq/DATABASE_USERNAME"
	DATABASE_PASSWORD       = "/epicq/DATABASE_PASSWORD"
	SSL_MODE                = "/epicq/SSL_MODE"
	MAX_RECRUITMENT_PERIODS = "/epicq/MAX_RECRUITMENT_PERIODS"
	STRICT_PERIOD_SCHEDULE  = "/epicq/STRICT_PERIOD_SCHEDULE"
	DELETION_ARCHIVE_BUCKET = "/epicq/DELETION_ARCHIVE_BUCKET"
	COGNITO_USER_POOL_ID    = "/epicq/COGNITO_USER_POOL_ID"
	DRIVER_NAME             = "postgres"
	SSM_PARAMETER_PATH      = "/epicq"
	AWS_REGION              = "us-east-2"
	LOCALSTACK_ENDPOINT     = "http://docker.for.mac.host.internal:4566"

	DEFAULT_MAX_RECRUITMENT_PERIODS = 2
)
