package main

import (
	"context"
	"epicq/lib/models"
	"errors"
	"slices"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// validTriggerSources lists the V2.0 trigger sources that accept claim overrides
var validTriggerSources = []string{
	"TokenGeneration_HostedAuth",
	"TokenGeneration_Authentication",
	"TokenGeneration_NewPasswordChallenge",
	"TokenGeneration_AuthenticateDevice",
	"TokenGeneration_RefreshTokens",
}

// HandleEvent enriches the ID and access tokens with the caller's portal profile.
//
// event.UserName carries the Cognito sub, which is how users are keyed in the database.
// Lookup failures are logged and the event is returned unchanged.
func (h *Handler) HandleEvent(ctx context.Context, event events.CognitoEventUserPoolsPreTokenGenV2_0) (events.CognitoEventUserPoolsPreTokenGenV2_0, error) {
	h.Logger.WithFields(logrus.Fields{
		"trigger_source": event.TriggerSource,
		"user_pool_id":   event.UserPoolID,
		"username":       event.UserName,
		"client_id":      event.CallerContext.ClientID,
		"operation":      "HandleEvent",
	}).Debug("Processing Cognito Pre Token Generation V2.0 event")

	if !slices.Contains(validTriggerSources, event.TriggerSource) {
		h.Logger.WithField("trigger_source", event.TriggerSource).Warn("Invalid trigger source for V2.0, returning event unchanged")
		return event, nil
	}

	cognitoID := event.UserName
	if cognitoID == "" {
		h.Logger.WithField("operation", "HandleEvent").Error("Username (cognito_id) is empty in event")
		return event, errors.New("username cannot be empty")
	}

	profile, err := h.Users.GetUserProfile(ctx, cognitoID)
	if err != nil {
		h.Logger.WithFields(logrus.Fields{
			"cognito_id": cognitoID,
			"operation":  "HandleEvent",
			"error":      err.Error(),
		}).Error("Failed to fetch user profile from database, proceeding without custom claims")
		return event, nil
	}

	claimsToAdd := buildCustomClaims(profile)

	event.Response.ClaimsAndScopeOverrideDetails = events.ClaimsAndScopeOverrideDetailsV2_0{
		IDTokenGeneration: events.IDTokenGenerationV2_0{
			ClaimsToAddOrOverride: claimsToAdd,
			ClaimsToSuppress:      []string{},
		},
		AccessTokenGeneration: events.AccessTokenGenerationV2_0{
			ClaimsToAddOrOverride: claimsToAdd,
			ClaimsToSuppress:      []string{},
			ScopesToAdd:           []string{},
			ScopesToSuppress:      []string{},
		},
		GroupOverrideDetails: events.GroupConfigurationV2_0{
			GroupsToOverride:   []string{profile.Role},
			IAMRolesToOverride: []string{},
		},
	}

	h.Logger.WithFields(logrus.Fields{
		"user_id":     profile.UserID,
		"role":        profile.Role,
		"hospital_id": claimsToAdd["hospital_id"],
		"operation":   "HandleEvent",
	}).Debug("Successfully added custom claims to token")

	return event, nil
}

// buildCustomClaims flattens a profile into string claims. hospital_id is an empty
// string for admins and for coordinators without an active assignment.
func buildCustomClaims(profile *models.UserProfile) map[string]interface{} {
	hospitalID := ""
	if profile.Role == models.UserRoleCoordinator && profile.HospitalID.Valid {
		hospitalID = strconv.FormatInt(profile.HospitalID.Int64, 10)
	}

	return map[string]interface{}{
		"user_id":     strconv.FormatInt(profile.UserID, 10),
		"email":       profile.Email,
		"name":        profile.Name,
		"role":        profile.Role,
		"hospital_id": hospitalID,
	}
}
