package finalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBlobStore implements the BlobStore interface for testing
type mockBlobStore struct {
	mu           sync.Mutex
	putObjects   []string
	putPaths     []string
	putErr       error
	signErr      error
	pathExisted  bool
	signedPrefix string
}

func (m *mockBlobStore) PutFile(ctx context.Context, object, localPath, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putObjects = append(m.putObjects, object)
	m.putPaths = append(m.putPaths, localPath)
	if _, err := os.Stat(localPath); err == nil {
		m.pathExisted = true
	}
	return m.putErr
}

func (m *mockBlobStore) SignedURL(object string, ttl time.Duration) (string, error) {
	if m.signErr != nil {
		return "", m.signErr
	}
	prefix := m.signedPrefix
	if prefix == "" {
		prefix = "https://signed.example.com/"
	}
	return prefix + object, nil
}

func (m *mockBlobStore) ObjectURI(object string) string {
	return "gs://test-bucket/" + object
}

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func newTestFinalizer(t *testing.T, store BlobStore) *Finalizer {
	f, err := NewFinalizer(store, 48*time.Hour, setupTestLogger())
	require.NoError(t, err)
	return f
}

func TestNewFinalizerValidation(t *testing.T) {
	_, err := NewFinalizer(nil, time.Hour, setupTestLogger())
	assert.Error(t, err)

	_, err = NewFinalizer(&mockBlobStore{}, time.Hour, nil)
	assert.Error(t, err)
}

func TestFinalizeSuccess(t *testing.T) {
	store := &mockBlobStore{}
	f := newTestFinalizer(t, store)

	ref, err := f.Finalize(context.Background(), []byte("fake-mp4"), "video/mp4", "t1", "a cat video")
	require.NoError(t, err)
	require.NotNil(t, ref)

	require.Len(t, store.putObjects, 1)
	object := store.putObjects[0]
	assert.True(t, strings.HasPrefix(object, "t1/"), "object path should be namespaced by task ID, got %q", object)
	assert.True(t, strings.HasSuffix(object, ".mp4"), "object path should carry the mime extension, got %q", object)

	assert.True(t, ref.Signed)
	assert.Equal(t, "https://signed.example.com/"+object, ref.URL)
	assert.Equal(t, "video/mp4", ref.MIMEType)
	assert.Contains(t, ref.Description, "a cat video")
	assert.Contains(t, ref.Description, "gs://test-bucket/"+object)
}

func TestFinalizeSigningFailureDegradesToLocator(t *testing.T) {
	store := &mockBlobStore{signErr: errors.New("permission denied")}
	f := newTestFinalizer(t, store)

	ref, err := f.Finalize(context.Background(), []byte("fake-mp4"), "video/mp4", "t1", "a prompt")
	require.NoError(t, err, "signing failure must not fail finalization")
	require.NotNil(t, ref)

	assert.False(t, ref.Signed)
	assert.Equal(t, "gs://test-bucket/"+store.putObjects[0], ref.URL)
}

func TestFinalizeUploadFailure(t *testing.T) {
	store := &mockBlobStore{putErr: errors.New("bucket unavailable")}
	f := newTestFinalizer(t, store)

	ref, err := f.Finalize(context.Background(), []byte("fake-mp4"), "video/mp4", "t1", "a prompt")
	assert.Error(t, err)
	assert.Nil(t, ref)
}

func TestFinalizeEmptyPayload(t *testing.T) {
	store := &mockBlobStore{}
	f := newTestFinalizer(t, store)

	ref, err := f.Finalize(context.Background(), nil, "video/mp4", "t1", "a prompt")
	assert.Error(t, err)
	assert.Nil(t, ref)
	assert.Empty(t, store.putObjects, "no upload should be attempted for an empty payload")
}

func TestFinalizeRemovesTempFile(t *testing.T) {
	tests := []struct {
		name   string
		putErr error
	}{
		{"on success", nil},
		{"on upload failure", errors.New("simulated upload failure")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockBlobStore{putErr: tc.putErr}
			f := newTestFinalizer(t, store)

			_, _ = f.Finalize(context.Background(), []byte("fake-mp4"), "video/mp4", "t1", "a prompt")

			require.Len(t, store.putPaths, 1)
			assert.True(t, store.pathExisted, "staged file should exist during upload")
			_, statErr := os.Stat(store.putPaths[0])
			assert.True(t, os.IsNotExist(statErr),
				"temporary file %q should be removed after finalize returns", store.putPaths[0])
		})
	}
}

func TestFinalizeDistinctTasksNeverCollide(t *testing.T) {
	store := &mockBlobStore{}
	f := newTestFinalizer(t, store)

	const perTask = 5
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		taskID := fmt.Sprintf("task-%s", uuid.New())
		for j := 0; j < perTask; j++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := f.Finalize(context.Background(), []byte("fake-mp4"), "video/mp4", id, "a prompt")
				assert.NoError(t, err)
			}(taskID)
		}
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, object := range store.putObjects {
		assert.False(t, seen[object], "derived blob path %q must be unique", object)
		seen[object] = true
	}
}

func TestExtensionFromMIME(t *testing.T) {
	tests := []struct {
		mimeType string
		want     string
	}{
		{"video/mp4", "mp4"},
		{"video/webm", "webm"},
		{"", "mp4"},
		{"mp4", "mp4"},
		{"video/", "mp4"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, extensionFromMIME(tc.mimeType), "mime type %q", tc.mimeType)
	}
}
