package uploads

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// MockDriver implements StorageDriver for testing
type MockDriver struct {
	SavedKey       string
	SavedBody      []byte
	SavedMimeType  string
	GenerateURLErr error
	DeleteCalled   bool
	DeleteKey      string
}

func (m *MockDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	m.SavedKey = key
	m.SavedMimeType = contentType
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.SavedBody = content
	return nil
}

func (m *MockDriver) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return io.NopCloser(bytes.NewReader(m.SavedBody)), m.SavedMimeType, nil
}

func (m *MockDriver) Delete(ctx context.Context, key string) error {
	m.DeleteCalled = true
	m.DeleteKey = key
	return nil
}

func (m *MockDriver) GenerateURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.GenerateURLErr != nil {
		return "", m.GenerateURLErr
	}
	return "/test/" + key, nil
}

func TestDocumentStorePut(t *testing.T) {
	mock := &MockDriver{}
	store := NewDocumentStore(mock)

	ctx := context.Background()
	content := []byte("%PDF-1.4 contract")

	stored, err := store.Put(ctx, "contract.pdf", bytes.NewReader(content), int64(len(content)), "application/pdf")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !strings.HasSuffix(stored.Key, ".pdf") {
		t.Errorf("expected key to keep the file extension, got %s", stored.Key)
	}
	if stored.Key == "contract.pdf" {
		t.Error("key must not be the original filename")
	}
	if !bytes.Equal(mock.SavedBody, content) {
		t.Error("saved body does not match input")
	}
	if stored.MimeType != "application/pdf" {
		t.Errorf("unexpected MIME type: %s", stored.MimeType)
	}
	if stored.URL != "/test/"+stored.Key {
		t.Errorf("unexpected URL: %s", stored.URL)
	}
}

func TestDocumentStorePutDefaultsMimeType(t *testing.T) {
	mock := &MockDriver{}
	store := NewDocumentStore(mock)

	stored, err := store.Put(context.Background(), "data.bin", bytes.NewReader([]byte{0x01}), 1, "")
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if stored.MimeType != "application/octet-stream" {
		t.Errorf("expected octet-stream fallback, got %s", stored.MimeType)
	}
}

func TestDocumentStorePutCleansUpOnURLFailure(t *testing.T) {
	mock := &MockDriver{
		GenerateURLErr: io.ErrUnexpectedEOF,
	}
	store := NewDocumentStore(mock)

	_, err := store.Put(context.Background(), "contract.pdf", bytes.NewReader([]byte("x")), 1, "application/pdf")
	if err == nil {
		t.Fatal("expected Put to fail when GenerateURL fails")
	}

	if !mock.DeleteCalled {
		t.Error("expected Delete to be called to clean up the orphaned blob")
	}
	if mock.DeleteKey != mock.SavedKey {
		t.Errorf("expected Delete with key %s, got %s", mock.SavedKey, mock.DeleteKey)
	}
}

func TestDocumentStoreFetch(t *testing.T) {
	mock := &MockDriver{
		SavedBody:     []byte("report body"),
		SavedMimeType: "application/msword",
	}
	store := NewDocumentStore(mock)

	reader, contentType, err := store.Fetch(context.Background(), "some-key.doc")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer reader.Close()

	if contentType != "application/msword" {
		t.Errorf("unexpected content type: %s", contentType)
	}
	got, _ := io.ReadAll(reader)
	if !bytes.Equal(got, mock.SavedBody) {
		t.Error("fetched content does not match stored content")
	}
}
