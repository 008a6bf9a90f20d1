package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorageClient stores objects as files below Root.
type LocalStorageClient struct {
	Root string
}

// NewLocalStorageClient creates root when missing.
func NewLocalStorageClient(root string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorageClient{Root: root}, nil
}

func (l *LocalStorageClient) path(objectName string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(objectName))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid object name %q", objectName)
	}
	full := filepath.Join(l.Root, clean)
	if !strings.HasPrefix(full, filepath.Clean(l.Root)+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object name %q", objectName)
	}
	return full, nil
}

// UploadFile implements StorageClient.
func (l *LocalStorageClient) UploadFile(_ context.Context, objectName string, fileData io.Reader) error {
	p, err := l.path(objectName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create object: %w", err)
	}
	if _, err := io.Copy(f, fileData); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("failed to write data to object: %w", err)
	}
	return f.Close()
}

// DownloadFile implements StorageClient.
func (l *LocalStorageClient) DownloadFile(_ context.Context, objectName string) (io.ReadCloser, int64, error) {
	p, err := l.path(objectName)
	if err != nil {
		return nil, 0, err
	}
	// #nosec G304 -- p is confined to Root by path()
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, ErrObjectNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("failed to stat object: %w", err)
	}
	return f, info.Size(), nil
}

// DeleteFile implements StorageClient. Deleting a missing object is not an error.
func (l *LocalStorageClient) DeleteFile(_ context.Context, objectName string) error {
	p, err := l.path(objectName)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// DeletePrefix implements StorageClient for prefixes naming a directory.
func (l *LocalStorageClient) DeletePrefix(_ context.Context, prefix string) error {
	p, err := l.path(strings.TrimSuffix(prefix, "/"))
	if err != nil {
		return err
	}
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}
	return nil
}
