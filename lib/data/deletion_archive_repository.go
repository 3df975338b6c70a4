package data

import (
	"context"
	"encoding/json"
	"epicq/lib/clients"
	"epicq/lib/models"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DeletionArchiveRepository keeps an audit copy of every committed deletion
type DeletionArchiveRepository interface {
	// Archive stores the result and returns its object key
	Archive(ctx context.Context, result *models.DeletionResult) (string, error)

	// DownloadURL returns a presigned link to an archived result
	DownloadURL(ctx context.Context, key string) (string, error)
}

// archiveURLExpiry bounds how long a presigned archive link stays valid
const archiveURLExpiry = 15 * time.Minute

// S3DeletionArchiveDao implements DeletionArchiveRepository on an S3 bucket
type S3DeletionArchiveDao struct {
	S3     clients.S3ClientInterface
	Logger *logrus.Logger
}

// Archive writes the result as JSON under deletions/<subject>/<id>/<date>/<uuid>.json
func (dao *S3DeletionArchiveDao) Archive(ctx context.Context, result *models.DeletionResult) (string, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode deletion result: %w", err)
	}

	key := archiveKey(result, uuid.New())
	if err := dao.S3.PutObject(ctx, key, "application/json", body); err != nil {
		dao.Logger.WithFields(logrus.Fields{
			"key":        key,
			"subject":    result.Subject,
			"subject_id": result.SubjectID,
			"error":      err.Error(),
		}).Error("Failed to archive deletion result")
		return "", fmt.Errorf("failed to archive deletion result: %w", err)
	}

	dao.Logger.WithFields(logrus.Fields{
		"key":        key,
		"subject":    result.Subject,
		"subject_id": result.SubjectID,
	}).Info("Archived deletion result")
	return key, nil
}

// DownloadURL returns a presigned link to an archived result
func (dao *S3DeletionArchiveDao) DownloadURL(ctx context.Context, key string) (string, error) {
	exists, err := dao.S3.ObjectExists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to check archive %s: %w", key, err)
	}
	if !exists {
		return "", fmt.Errorf("archive %s: %w", key, ErrNotFound)
	}
	return dao.S3.GenerateDownloadURL(ctx, key, archiveURLExpiry)
}

func archiveKey(result *models.DeletionResult, id uuid.UUID) string {
	return fmt.Sprintf("deletions/%s/%d/%s/%s.json",
		result.Subject, result.SubjectID, result.ExecutedAt.UTC().Format(models.DateLayout), id)
}
