package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/cecilvega/kverse-sub000/internal/config"
)

type gcsStore struct {
	client *gcs.Client
	bucket string
}

// NewGCSStore creates an object store backed by Google Cloud Storage
func NewGCSStore(ctx context.Context, cfg config.GCSConfig) (ObjectStore, func() error, error) {
	opts := []option.ClientOption{option.WithScopes(gcs.ScopeReadWrite)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &gcsStore{client: client, bucket: cfg.Bucket}, client.Close, nil
}

// Put writes data under key
func (s *gcsStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// Bucket returns the bucket name
func (s *gcsStore) Bucket() string {
	return s.bucket
}
