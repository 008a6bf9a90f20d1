// Package storage keeps uploaded candidate documents outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrObjectNotFound is returned when the requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// StorageClient stores opaque objects addressed by slash separated names.
type StorageClient interface {
	UploadFile(ctx context.Context, objectName string, fileData io.Reader) error
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error)
	DeleteFile(ctx context.Context, objectName string) error
	// DeletePrefix removes every object whose name starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// CandidatePrefix is the prefix holding every document of a candidate.
func CandidatePrefix(candidateID uint) string {
	return fmt.Sprintf("candidates/%d/", candidateID)
}
