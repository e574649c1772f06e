package drivers

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalFSDriver_FanOut(t *testing.T) {
	tempDir := t.TempDir()

	driver, err := NewLocalFSDriver(tempDir, "/api/documents/files")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	key := "abcdef123456.pdf"
	content := []byte("protocol content")

	if err := driver.Save(ctx, key, bytes.NewReader(content), "application/pdf"); err != nil {
		t.Errorf("Save failed: %v", err)
	}

	// Key "abcdef123456.pdf" should land at ab/cd/abcdef123456.pdf
	fullPath := filepath.Join(tempDir, "ab", "cd", key)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		t.Errorf("file not found at fanned-out path: %s", fullPath)
	}

	reader, contentType, err := driver.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer reader.Close()

	if contentType != "application/pdf" {
		t.Errorf("expected content type application/pdf, got %s", contentType)
	}
	got, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("reading content failed: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Error("content read back does not match content saved")
	}

	url, err := driver.GenerateURL(ctx, key, 0)
	if err != nil {
		t.Errorf("GenerateURL failed: %v", err)
	}
	if !strings.HasSuffix(url, key) || !strings.Contains(url, "/api/documents/files") {
		t.Errorf("unexpected URL: %s", url)
	}

	if err := driver.Delete(ctx, key); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if _, err := os.Stat(fullPath); !os.IsNotExist(err) {
		t.Error("file still exists after deletion")
	}
}

func TestLocalFSDriver_DeleteMissingKey(t *testing.T) {
	driver, err := NewLocalFSDriver(t.TempDir(), "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	if err := driver.Delete(context.Background(), "never-saved.pdf"); err != nil {
		t.Errorf("deleting a missing key should not fail, got: %v", err)
	}
}
