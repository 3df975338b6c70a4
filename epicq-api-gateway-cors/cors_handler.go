package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

const (
	allowedHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	allowedMethods = "GET, PUT, DELETE, POST, OPTIONS"
)

// HandleRequest echoes the request origin back when it is allowed. A "*" entry allows
// every origin.
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestOrigin := originHeader(request.Headers)
	if requestOrigin == "" {
		h.Logger.Warn("origin is not present in the request headers")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	for _, allowedOrigin := range h.AllowedOrigins {
		if allowedOrigin == "*" || allowedOrigin == requestOrigin {
			h.Logger.WithField("origin", requestOrigin).Debug("Allowed CORS preflight")
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers: map[string]string{
					"Access-Control-Allow-Origin":      requestOrigin,
					"Access-Control-Allow-Headers":     allowedHeaders,
					"Access-Control-Allow-Methods":     allowedMethods,
					"Access-Control-Allow-Credentials": "true",
				},
			}, nil
		}
	}

	h.Logger.WithFields(logrus.Fields{
		"origin":          requestOrigin,
		"allowed_origins": h.AllowedOrigins,
	}).Warn("unauthorized origin from request header")
	return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
}

// originHeader reads the Origin header regardless of how the gateway cased it
func originHeader(headers map[string]string) string {
	for name, value := range headers {
		if strings.EqualFold(name, "origin") {
			return value
		}
	}
	return ""
}
