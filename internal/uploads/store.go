package uploads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
)

// StoredDocument describes a binary that was written to storage.
type StoredDocument struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// DocumentStore coordinates writing and reading document binaries.
type DocumentStore struct {
	driver StorageDriver
}

func NewDocumentStore(driver StorageDriver) *DocumentStore {
	return &DocumentStore{driver: driver}
}

// Put writes the content under a fresh key derived from a random UUID,
// keeping the original file extension so downloads get a sensible name.
func (s *DocumentStore) Put(ctx context.Context, filename string, content io.Reader, size int64, mimeType string) (*StoredDocument, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	key := uuid.New().String() + filepath.Ext(filename)

	if err := s.driver.Save(ctx, key, content, mimeType); err != nil {
		return nil, fmt.Errorf("storage driver failed: %w", err)
	}

	url, err := s.driver.GenerateURL(ctx, key, 0)
	if err != nil {
		if delErr := s.driver.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to clean up orphaned blob", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to generate URL: %w", err)
	}

	return &StoredDocument{
		Key:      key,
		URL:      url,
		Size:     size,
		MimeType: mimeType,
	}, nil
}

// Fetch streams the binary back along with its MIME type.
func (s *DocumentStore) Fetch(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.driver.Get(ctx, key)
}

// Remove deletes the binary. Removing a missing key is not an error.
func (s *DocumentStore) Remove(ctx context.Context, key string) error {
	return s.driver.Delete(ctx, key)
}
