package api

import (
	"encoding/json"
	"epicq/lib/data"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

func headers() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
	}
}

// SuccessResponse creates a successful API Gateway response
func SuccessResponse(statusCode int, data interface{}, logger *logrus.Logger) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal response data")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    headers(),
	}
}

// NoContentResponse creates an empty 204 response
func NoContentResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNoContent,
		Headers:    headers(),
	}
}

// ErrorResponse creates an error API Gateway response
func ErrorResponse(statusCode int, message string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	errorData := map[string]interface{}{
		"error":   true,
		"message": message,
		"status":  statusCode,
	}

	body, err := json.Marshal(errorData)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal error response")
		body = []byte(`{"error":true,"message":"Internal server error","status":500}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    headers(),
	}
}

// ValidationErrorResponse creates a validation error response
func ValidationErrorResponse(message string, errors []string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	errorData := map[string]interface{}{
		"error":      true,
		"message":    message,
		"status":     http.StatusBadRequest,
		"validation": errors,
	}

	body, err := json.Marshal(errorData)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal validation error response")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusBadRequest,
		Body:       string(body),
		Headers:    headers(),
	}
}

// DomainErrorResponse maps a repository error to its HTTP response. Unclassified
// errors are logged and reported as a generic 500 without their details.
func DomainErrorResponse(err error, logger *logrus.Logger) events.APIGatewayProxyResponse {
	var validationErr *data.ValidationError
	switch {
	case errors.Is(err, data.ErrNotFound):
		return ErrorResponse(http.StatusNotFound, "Resource not found", logger)
	case errors.Is(err, data.ErrLimitExceeded):
		return ErrorResponse(http.StatusConflict, "Maximum number of recruitment periods reached", logger)
	case errors.As(err, &validationErr):
		return ValidationErrorResponse("Validation failed", []string{validationErr.Error()}, logger)
	case errors.Is(err, data.ErrValidation):
		return ValidationErrorResponse("Validation failed", []string{err.Error()}, logger)
	case errors.Is(err, data.ErrBlockedByActiveDependency):
		return ErrorResponse(http.StatusConflict, err.Error(), logger)
	default:
		logger.WithError(err).Error("Unhandled error")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}
}
