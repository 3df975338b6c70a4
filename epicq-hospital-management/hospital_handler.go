package main

import (
	"context"
	"epicq/lib/api"
	"epicq/lib/auth"
	"epicq/lib/data"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HandleRequest routes hospital management requests. Every route is admin only.
//
//	GET    /hospitals/{hospitalId}/deletion-analysis
//	DELETE /hospitals/{hospitalId}?deleteCoordinators=true|false
//	GET    /deletion-archives?key=...
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := h.Logger.WithFields(logrus.Fields{
		"operation":  "HandleRequest",
		"request_id": requestID,
		"method":     request.HTTPMethod,
		"resource":   request.Resource,
	})
	log.Info("Hospital management request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		log.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", h.Logger), nil
	}

	if !claims.IsAdmin() {
		log.WithField("user_id", claims.UserID).Warn("User is not an admin")
		return api.ErrorResponse(http.StatusForbidden, "Forbidden: Only admins can delete hospitals", h.Logger), nil
	}

	switch {
	case request.HTTPMethod == http.MethodGet && request.Resource == "/hospitals/{hospitalId}/deletion-analysis":
		return h.analyzeDeletion(ctx, request), nil
	case request.HTTPMethod == http.MethodDelete && request.Resource == "/hospitals/{hospitalId}":
		return h.executeDeletion(ctx, request, claims), nil
	case request.HTTPMethod == http.MethodGet && request.Resource == "/deletion-archives":
		return h.archiveURL(ctx, request), nil
	default:
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", h.Logger), nil
	}
}

// analyzeDeletion handles GET /hospitals/{hospitalId}/deletion-analysis
func (h *Handler) analyzeDeletion(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	hospitalID, err := strconv.ParseInt(request.PathParameters["hospitalId"], 10, 64)
	if err != nil {
		return api.ErrorResponse(http.StatusBadRequest, "Invalid hospital ID", h.Logger)
	}

	plan, err := h.Cascade.AnalyzeHospitalDeletion(ctx, hospitalID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	return api.SuccessResponse(http.StatusOK, plan, h.Logger)
}

// executeDeletion handles DELETE /hospitals/{hospitalId}
func (h *Handler) executeDeletion(ctx context.Context, request events.APIGatewayProxyRequest, claims *auth.Claims) events.APIGatewayProxyResponse {
	hospitalID, err := strconv.ParseInt(request.PathParameters["hospitalId"], 10, 64)
	if err != nil {
		return api.ErrorResponse(http.StatusBadRequest, "Invalid hospital ID", h.Logger)
	}

	deleteCoordinators := false
	if raw, ok := request.QueryStringParameters["deleteCoordinators"]; ok && raw != "" {
		deleteCoordinators, err = strconv.ParseBool(raw)
		if err != nil {
			return api.ErrorResponse(http.StatusBadRequest, "deleteCoordinators must be true or false", h.Logger)
		}
	}

	result, err := h.Cascade.ExecuteHospitalDeletion(ctx, hospitalID, deleteCoordinators)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	result.ExecutedBy = claims.UserID

	h.Logger.WithFields(logrus.Fields{
		"operation":           "executeDeletion",
		"hospital_id":         hospitalID,
		"delete_coordinators": deleteCoordinators,
		"executed_by":         claims.UserID,
	}).Info("Hospital deleted")

	response := data.FinalizeDeletion(ctx, result, h.Archive, h.Identity, h.Logger)
	return api.SuccessResponse(http.StatusOK, response, h.Logger)
}

// archiveURL handles GET /deletion-archives?key=...
func (h *Handler) archiveURL(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	if h.Archive == nil {
		return api.ErrorResponse(http.StatusNotFound, "Deletion archive is not configured", h.Logger)
	}

	key := request.QueryStringParameters["key"]
	if key == "" {
		return api.ErrorResponse(http.StatusBadRequest, "key is required", h.Logger)
	}

	url, err := h.Archive.DownloadURL(ctx, key)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	return api.SuccessResponse(http.StatusOK, map[string]string{"url": url}, h.Logger)
}
