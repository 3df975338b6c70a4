package data

import (
	"context"
	"epicq/lib/models"

	"github.com/sirupsen/logrus"
)

// FinalizeDeletion runs the follow-ups of a committed deletion: the result is archived and
// the identities of deleted users are removed from the user pool. Either repository may be
// nil when not configured. Failures are logged and returned as warnings only.
func FinalizeDeletion(ctx context.Context, result *models.DeletionResult, archive DeletionArchiveRepository,
	identity IdentityRepository, logger *logrus.Logger) *models.DeletionResponse {
	response := &models.DeletionResponse{Result: result}

	if identity != nil && len(result.DeletedCognitoIDs) > 0 {
		if err := identity.DeleteIdentities(ctx, result.DeletedCognitoIDs); err != nil {
			logger.WithFields(logrus.Fields{
				"operation":  "FinalizeDeletion",
				"subject":    result.Subject,
				"subject_id": result.SubjectID,
				"error":      err.Error(),
			}).Warn("Deleted users could not be removed from the user pool")
			response.Warnings = append(response.Warnings, "Some deleted users could not be removed from the login service")
		}
	}

	if archive != nil {
		key, err := archive.Archive(ctx, result)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"operation":  "FinalizeDeletion",
				"subject":    result.Subject,
				"subject_id": result.SubjectID,
				"error":      err.Error(),
			}).Warn("Deletion result could not be archived")
			response.Warnings = append(response.Warnings, "Deletion record could not be archived")
		} else {
			response.ArchiveKey = key
		}
	}

	return response
}
