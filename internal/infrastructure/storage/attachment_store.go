// Package storage keeps message attachments in object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AttachmentStore persists uploaded files and returns a URL clients can fetch.
type AttachmentStore interface {
	Upload(ctx context.Context, file io.Reader, contentType, ownerID string) (string, error)
	Delete(ctx context.Context, fileURL string) error
}

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// IsAllowedType reports whether contentType may be attached to a message.
func IsAllowedType(contentType string) bool {
	_, ok := extensions[contentType]
	return ok
}

func objectName(contentType, ownerID string) string {
	return fmt.Sprintf("attachments/%s/%s-%s%s",
		ownerID, uuid.New().String(), time.Now().Format("20060102150405"), extensions[contentType])
}

// MemoryStore keeps uploads in memory, for development without a bucket.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Upload(ctx context.Context, file io.Reader, contentType, ownerID string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	url := "memory://" + objectName(contentType, ownerID)
	s.mu.Lock()
	s.objects[url] = data
	s.mu.Unlock()
	return url, nil
}

func (s *MemoryStore) Delete(ctx context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[fileURL]; !ok {
		return fmt.Errorf("object not found: %s", fileURL)
	}
	delete(s.objects, fileURL)
	return nil
}
