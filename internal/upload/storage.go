package upload

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const attachmentObjectPrefix = "attachments"

// Storage persists validated file bytes and returns a durable reference
// string. The core never inspects content beyond what the validator
// needs.
type Storage interface {
	Store(ctx context.Context, name string, data io.Reader) (ref string, err error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

// CloudStorage stores attachments in a Google Cloud Storage bucket.
type CloudStorage struct {
	BucketName string
	Client     *storage.Client
}

// NewCloudStorage creates a GCS-backed Storage.
func NewCloudStorage(ctx context.Context, bucketName string) (*CloudStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %w", err)
	}
	return &CloudStorage{
		BucketName: bucketName,
		Client:     client,
	}, nil
}

// Store uploads the file bytes under a fresh object name and returns the
// object name as the durable reference.
func (c *CloudStorage) Store(ctx context.Context, name string, data io.Reader) (string, error) {
	objectName := fmt.Sprintf("%s/%s-%s", attachmentObjectPrefix, uuid.NewString(), name)

	obj := c.Client.Bucket(c.BucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	if _, err := io.Copy(wc, data); err != nil {
		return "", fmt.Errorf("failed to write data to object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close object writer: %w", err)
	}

	return objectName, nil
}

// Open returns a reader over a previously stored object.
func (c *CloudStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	return c.Client.Bucket(c.BucketName).Object(ref).NewReader(ctx)
}

// Close releases the underlying client.
func (c *CloudStorage) Close() error {
	return c.Client.Close()
}
