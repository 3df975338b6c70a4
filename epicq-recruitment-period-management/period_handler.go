package main

import (
	"context"
	"encoding/json"
	"epicq/lib/api"
	"epicq/lib/auth"
	"epicq/lib/models"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HandleRequest routes recruitment period requests. Admins may read any hospital's
// periods; only the coordinator of the owning hospital may read or change them otherwise.
//
//	GET    /project-hospitals/{projectHospitalId}/recruitment-periods
//	POST   /project-hospitals/{projectHospitalId}/recruitment-periods
//	GET    /recruitment-periods/{periodId}
//	PUT    /recruitment-periods/{periodId}
//	DELETE /recruitment-periods/{periodId}
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
	}).Info("Recruitment period request received")

	claims, err := auth.ExtractClaimsFromRequest(request)
	if err != nil {
		h.Logger.WithError(err).Error("Authentication failed")
		return api.ErrorResponse(http.StatusUnauthorized, "Authentication failed", h.Logger), nil
	}

	switch request.Resource {
	case "/project-hospitals/{projectHospitalId}/recruitment-periods":
		projectHospitalID, err := strconv.ParseInt(request.PathParameters["projectHospitalId"], 10, 64)
		if err != nil {
			return api.ErrorResponse(http.StatusBadRequest, "Invalid project hospital ID", h.Logger), nil
		}
		switch request.HTTPMethod {
		case http.MethodGet:
			return h.handleListPeriods(ctx, projectHospitalID, claims), nil
		case http.MethodPost:
			return h.handleCreatePeriod(ctx, request, projectHospitalID, claims), nil
		}
	case "/recruitment-periods/{periodId}":
		periodID, err := strconv.ParseInt(request.PathParameters["periodId"], 10, 64)
		if err != nil {
			return api.ErrorResponse(http.StatusBadRequest, "Invalid period ID", h.Logger), nil
		}
		switch request.HTTPMethod {
		case http.MethodGet:
			return h.handleGetPeriod(ctx, periodID, claims), nil
		case http.MethodPut:
			return h.handleUpdatePeriod(ctx, request, periodID, claims), nil
		case http.MethodDelete:
			return h.handleDeletePeriod(ctx, periodID, claims), nil
		}
	default:
		return api.ErrorResponse(http.StatusNotFound, "Endpoint not found", h.Logger), nil
	}
	return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", h.Logger), nil
}

// handleListPeriods handles GET /project-hospitals/{projectHospitalId}/recruitment-periods
func (h *Handler) handleListPeriods(ctx context.Context, projectHospitalID int64, claims *auth.Claims) events.APIGatewayProxyResponse {
	if resp, ok := h.authorize(ctx, projectHospitalID, claims, false); !ok {
		return resp
	}

	response, err := h.Periods.ListPeriods(ctx, projectHospitalID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	return api.SuccessResponse(http.StatusOK, response, h.Logger)
}

// handleCreatePeriod handles POST /project-hospitals/{projectHospitalId}/recruitment-periods
func (h *Handler) handleCreatePeriod(ctx context.Context, request events.APIGatewayProxyRequest, projectHospitalID int64, claims *auth.Claims) events.APIGatewayProxyResponse {
	var req models.RecruitmentPeriodRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.Logger.WithError(err).Warn("Invalid request body for create period")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", h.Logger)
	}

	if resp, ok := h.authorize(ctx, projectHospitalID, claims, true); !ok {
		return resp
	}

	period, err := h.Periods.CreatePeriod(ctx, projectHospitalID, &req)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	return api.SuccessResponse(http.StatusCreated, period, h.Logger)
}

// handleGetPeriod handles GET /recruitment-periods/{periodId}
func (h *Handler) handleGetPeriod(ctx context.Context, periodID int64, claims *auth.Claims) events.APIGatewayProxyResponse {
	period, err := h.Periods.GetPeriod(ctx, periodID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	if resp, ok := h.authorize(ctx, period.ProjectHospitalID, claims, false); !ok {
		return resp
	}
	return api.SuccessResponse(http.StatusOK, period, h.Logger)
}

// handleUpdatePeriod handles PUT /recruitment-periods/{periodId}
func (h *Handler) handleUpdatePeriod(ctx context.Context, request events.APIGatewayProxyRequest, periodID int64, claims *auth.Claims) events.APIGatewayProxyResponse {
	var req models.RecruitmentPeriodRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.Logger.WithError(err).Warn("Invalid request body for update period")
		return api.ErrorResponse(http.StatusBadRequest, "Invalid request body", h.Logger)
	}

	existing, err := h.Periods.GetPeriod(ctx, periodID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	if resp, ok := h.authorize(ctx, existing.ProjectHospitalID, claims, true); !ok {
		return resp
	}

	period, err := h.Periods.UpdatePeriod(ctx, periodID, &req)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	return api.SuccessResponse(http.StatusOK, period, h.Logger)
}

// handleDeletePeriod handles DELETE /recruitment-periods/{periodId}
func (h *Handler) handleDeletePeriod(ctx context.Context, periodID int64, claims *auth.Claims) events.APIGatewayProxyResponse {
	existing, err := h.Periods.GetPeriod(ctx, periodID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	if resp, ok := h.authorize(ctx, existing.ProjectHospitalID, claims, true); !ok {
		return resp
	}

	if err := h.Periods.DeletePeriod(ctx, periodID); err != nil {
		return api.DomainErrorResponse(err, h.Logger)
	}
	return api.NoContentResponse()
}

// authorize checks the caller against the hospital owning projectHospitalID. Mutations
// are reserved for that hospital's coordinator; reads are also open to admins.
func (h *Handler) authorize(ctx context.Context, projectHospitalID int64, claims *auth.Claims, mutate bool) (events.APIGatewayProxyResponse, bool) {
	projectHospital, err := h.Periods.GetProjectHospital(ctx, projectHospitalID)
	if err != nil {
		return api.DomainErrorResponse(err, h.Logger), false
	}

	if claims.CoordinatesHospital(projectHospital.HospitalID) {
		return events.APIGatewayProxyResponse{}, true
	}
	if claims.IsAdmin() && !mutate {
		return events.APIGatewayProxyResponse{}, true
	}

	h.Logger.WithFields(logrus.Fields{
		"operation":           "authorize",
		"user_id":             claims.UserID,
		"project_hospital_id": projectHospitalID,
		"mutate":              mutate,
	}).Warn("Caller does not coordinate this hospital")
	return api.ErrorResponse(http.StatusForbidden, "Forbidden: Only the hospital's coordinator can manage its recruitment periods", h.Logger), false
}
