package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// CloudStorageClient stores objects in a Google Cloud Storage bucket.
type CloudStorageClient struct {
	BucketName string
	Client     *storage.Client
}

// NewCloudStorageClient creates a client using application default credentials.
func NewCloudStorageClient(ctx context.Context, bucketName string) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %w", err)
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		Client:     client,
	}, nil
}

func (c *CloudStorageClient) bucket() *storage.BucketHandle {
	return c.Client.Bucket(c.BucketName)
}

// UploadFile implements StorageClient.
func (c *CloudStorageClient) UploadFile(ctx context.Context, objectName string, fileData io.Reader) error {
	wc := c.bucket().Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(wc, fileData); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to write data to object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close object writer: %w", err)
	}
	return nil
}

// DownloadFile implements StorageClient.
func (c *CloudStorageClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	rc, err := c.bucket().Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, 0, ErrObjectNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object reader: %w", err)
	}
	return rc, rc.Attrs.Size, nil
}

// DeleteFile implements StorageClient. Deleting a missing object is not an error.
func (c *CloudStorageClient) DeleteFile(ctx context.Context, objectName string) error {
	err := c.bucket().Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeletePrefix implements StorageClient.
func (c *CloudStorageClient) DeletePrefix(ctx context.Context, prefix string) error {
	it := c.bucket().Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}
		if err := c.DeleteFile(ctx, attrs.Name); err != nil {
			return err
		}
	}
}

// Close releases the underlying client.
func (c *CloudStorageClient) Close() error {
	return c.Client.Close()
}
