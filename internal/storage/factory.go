package storage

import (
	"context"

	"go.uber.org/zap"

	"ats-backend/internal/logging"
)

// New returns a Cloud Storage client when bucket is set, otherwise a local disk client under uploadDir.
func New(ctx context.Context, bucket string, uploadDir string) (StorageClient, error) {
	if bucket != "" {
		logging.Logger(ctx).Info("Storing documents in Cloud Storage", zap.String("bucket", bucket))
		return NewCloudStorageClient(ctx, bucket)
	}
	logging.Logger(ctx).Info("Storing documents on local disk", zap.String("dir", uploadDir))
	return NewLocalStorageClient(uploadDir)
}
