package clients

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3ClientInterface defines the interface for S3 operations
type S3ClientInterface interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	GenerateDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// S3Client wraps the AWS S3 client with our custom methods
type S3Client struct {
	svc           *s3.Client
	presignClient *s3.PresignClient
	bucket        string
}

// NewS3Client creates a new S3 client bound to one bucket
func NewS3Client(isLocal bool, bucket string) S3ClientInterface {
	// Path-style addressing keeps LocalStack and real buckets on the same key layout
	svc := s3.NewFromConfig(loadAWSConfig(isLocal), func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3Client{
		svc:           svc,
		presignClient: s3.NewPresignClient(svc),
		bucket:        bucket,
	}
}

// PutObject uploads body under key
func (client *S3Client) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	_, err := client.svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(client.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}

// GenerateDownloadURL creates a presigned URL for downloading an object from S3
func (client *S3Client) GenerateDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presignResult, err := client.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))

	if err != nil {
		return "", err
	}

	return presignResult.URL, nil
}

// ObjectExists checks if an object exists in S3
func (client *S3Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := client.svc.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return false, nil // Object doesn't exist or other error
	}

	return true, nil
}
