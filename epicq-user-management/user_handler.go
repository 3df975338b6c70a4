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

// HandleRequest routes coordinator management requests. Every route is admin only.
func (h *Handler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	h.Logger.WithFields(logrus.Fields{
		"operation":  "HandleRequest",
		"request_id": requestID,
		"method":     request.HTTPMethod,
		"resource":   request.Resource,
	}).Info("User management request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		h.Logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", h.Logger), nil
	}

	if !claims.IsAdmin() {
		h.Logger.WithField("user_id", claims.UserID).Warn("User is not an admin")
		return api.ErrorResponse(http.StatusForbidden, "Forbidden: Only admins can manage users", h.Logger), nil
	}

	userID, err := strconv.ParseInt(request.PathParameters["userId"], 10, 64)
	if err != nil {
		h.Logger.WithError(err).Error("Invalid user ID")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid user ID", h.Logger), nil
	}

	switch {
	case request.HTTPMethod == http.MethodGet && request.Resource == "/users/{userId}/assignments":
		return h.handleGetAssignments(ctx, userID), nil
	case request.HTTPMethod == http.MethodGet && request.Resource == "/users/{userId}/deletion-analysis":
		return h.handleAnalyzeDeletion(ctx, userID), nil
	case request.HTTPMethod == http.MethodDelete && request.Resource == "/users/{userId}":
		return h.handleDeleteCoordinator(ctx, userID, claims), nil
	default:
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", h.Logger), nil
	}
}

// handleGetAssignments handles GET /users/{userId}/assignments
func (h *Handler) handleGetAssignments(ctx context.Context, userID int64) events.APIGatewayProxyResponse {
	if _, err := h.Users.GetUser(ctx, userID); err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}

	assignments, err := h.Users.ListCoordinatorAssignments(ctx, userID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}

	return api.SuccessResponse(http.StatusOK, map[string]interface{}{
		"user_id":     userID,
		"assignments": assignments,
		"total":       len(assignments),
	}, h.Logger)
}

// handleAnalyzeDeletion handles GET /users/{userId}/deletion-analysis
func (h *Handler) handleAnalyzeDeletion(ctx context.Context, userID int64) events.APIGatewayProxyResponse {
	plan, err := h.Cascade.AnalyzeCoordinatorDeletion(ctx, userID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	return api.SuccessResponse(http.StatusOK, plan, h.Logger)
}

// handleDeleteCoordinator handles DELETE /users/{userId}
func (h *Handler) handleDeleteCoordinator(ctx context.Context, userID int64, claims *auth.Claims) events.APIGatewayProxyResponse {
	if userID == claims.UserID {
		return api.ErrorResponse(http.StatusBadRequest, "You cannot delete your own account", h.Logger)
	}

	result, err := h.Cascade.ExecuteCoordinatorDeletion(ctx, userID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	result.ExecutedBy = claims.UserID

	h.Logger.WithFields(logrus.Fields{
		"operation":   "handleDeleteCoordinator",
		"user_id":     userID,
		"executed_by": claims.UserID,
	}).Info("Coordinator deleted")

	response := data.FinalizeDeletion(ctx, result, h.Archive, h.Identity, h.Logger)
	return api.SuccessResponse(http.StatusOK, response, h.Logger)
}
