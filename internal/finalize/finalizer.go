// Package finalize turns generated video bytes into a durable, fetchable
// artifact. It uploads the bytes to blob storage under a per-task path and
// requests a time-limited signed URL, falling back to the raw storage locator
// when signing is unavailable.
package finalize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/vidgen-api/internal/domain"
)

// BlobStore is the storage capability the finalizer depends on. Both methods
// must be safe to call repeatedly and concurrently for distinct objects.
type BlobStore interface {
	// PutFile uploads the local file to the given object path with the given
	// content type.
	PutFile(ctx context.Context, object, localPath, contentType string) error

	// SignedURL returns a time-limited externally fetchable URL for the
	// object.
	SignedURL(object string, ttl time.Duration) (string, error)

	// ObjectURI returns the raw storage locator for the object.
	ObjectURI(object string) string
}

// Finalizer uploads generated payloads and produces artifact references.
type Finalizer struct {
	store        BlobStore
	signedURLTTL time.Duration
	logger       *slog.Logger
}

// NewFinalizer creates a Finalizer backed by the given blob store.
// Returns an error if the store or logger is nil.
func NewFinalizer(store BlobStore, signedURLTTL time.Duration, logger *slog.Logger) (*Finalizer, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: blob store is not configured", domain.ErrFinalizeFailed)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", domain.ErrFinalizeFailed)
	}

	return &Finalizer{
		store:        store,
		signedURLTTL: signedURLTTL,
		logger:       logger.With("component", "finalizer"),
	}, nil
}

// Finalize uploads the payload under a random per-task object path, then
// requests a signed URL for it. A signing failure degrades to the raw storage
// locator with Signed=false and is still a success; an upload failure is
// fatal and returns a domain.ErrFinalizeFailed error.
func (f *Finalizer) Finalize(
	ctx context.Context,
	payload []byte,
	mimeType string,
	taskID string,
	prompt string,
) (*domain.ArtifactRef, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", domain.ErrFinalizeFailed)
	}

	// The random component guarantees retries within the same task never
	// collide on a path.
	name := fmt.Sprintf("video_%s.%s", uuid.New(), extensionFromMIME(mimeType))
	object := fmt.Sprintf("%s/%s", taskID, name)

	logger := f.logger.With("task_id", taskID, "object", object)

	if err := f.upload(ctx, object, payload, mimeType, logger); err != nil {
		return nil, err
	}

	objectURI := f.store.ObjectURI(object)
	logger.Info("uploaded generated video", "uri", objectURI)

	url := objectURI
	signed := false
	signedURL, err := f.store.SignedURL(object, f.signedURLTTL)
	if err != nil {
		// Degraded but valid success: the artifact exists, it just is not
		// reachable without storage credentials.
		logger.Warn("failed to generate signed URL, falling back to storage locator",
			"error", err)
	} else {
		url = signedURL
		signed = true
	}

	return &domain.ArtifactRef{
		URL:         url,
		MIMEType:    mimeType,
		Name:        name,
		Description: fmt.Sprintf("Generated video for prompt: %q. Storage location: %s", prompt, objectURI),
		Signed:      signed,
	}, nil
}

// upload stages the payload in a temporary local file and hands it to the
// blob store. The temporary file is removed on every exit path.
func (f *Finalizer) upload(
	ctx context.Context,
	object string,
	payload []byte,
	mimeType string,
	logger *slog.Logger,
) error {
	tmp, err := os.CreateTemp("", "vidgen-upload-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %v", domain.ErrFinalizeFailed, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			logger.Warn("failed to remove temporary upload file",
				"path", tmpPath, "error", removeErr)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: failed to stage payload: %v", domain.ErrFinalizeFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to stage payload: %v", domain.ErrFinalizeFailed, err)
	}

	logger.Debug("uploading staged payload", "bytes", len(payload), "mime_type", mimeType)

	if err := f.store.PutFile(ctx, object, tmpPath, mimeType); err != nil {
		return fmt.Errorf("%w: upload failed: %v", domain.ErrFinalizeFailed, err)
	}

	return nil
}

// extensionFromMIME derives a file extension from a mime type like
// "video/mp4", defaulting to mp4 when the type is missing or malformed.
func extensionFromMIME(mimeType string) string {
	if idx := strings.LastIndex(mimeType, "/"); idx >= 0 && idx < len(mimeType)-1 {
		return mimeType[idx+1:]
	}
	return "mp4"
}
