// Package gcs implements the blob store used during artifact finalization on
// top of Google Cloud Storage.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/phrazzld/vidgen-api/internal/config"
)

// Common errors returned by the store
var (
	ErrNilLogger   = errors.New("logger cannot be nil")
	ErrEmptyBucket = errors.New("bucket name cannot be empty")
)

// Store uploads objects to a single bucket and produces URLs for them.
type Store struct {
	client      *storage.Client
	bucket      string
	signerEmail string
	logger      *slog.Logger
}

// NewStore creates a Store backed by a GCS client. When the configuration
// names a credentials file it is used; otherwise application default
// credentials apply.
func NewStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	if cfg.Bucket == "" {
		return nil, ErrEmptyBucket
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Store{
		client:      client,
		bucket:      cfg.Bucket,
		signerEmail: cfg.SignerEmail,
		logger:      logger.With("component", "gcs_store"),
	}, nil
}

// PutFile uploads the file at localPath to the bucket under the object name.
func (s *Store) PutFile(ctx context.Context, object, localPath, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Warn("failed to close staged file", "error", closeErr, "path", localPath)
		}
	}()

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, f); err != nil {
		// Abandon the upload; Close would otherwise commit a partial object.
		_ = w.Close()
		return fmt.Errorf("failed to write object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object %s: %w", object, err)
	}

	s.logger.Debug("uploaded object", "bucket", s.bucket, "object", object, "content_type", contentType)
	return nil
}

// SignedURL produces a V4 signed GET URL for the object, valid for ttl.
func (s *Store) SignedURL(object string, ttl time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	}
	if s.signerEmail != "" {
		opts.GoogleAccessID = s.signerEmail
	}

	url, err := s.client.Bucket(s.bucket).SignedURL(object, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for object %s: %w", object, err)
	}
	return url, nil
}

// ObjectURI returns the gs:// locator for the object. It is always available,
// even when signing is not.
func (s *Store) ObjectURI(object string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, object)
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
