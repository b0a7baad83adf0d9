// Package docstore defines the port to the external document store and an
// in-memory implementation used for process-lifetime state and tests.
package docstore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrDocumentNotFound is returned when no text is stored under the id.
var ErrDocumentNotFound = errors.New("document not found")

// TextSource resolves a document id to its extracted text. Extraction, OCR
// and virus/type validation all happen upstream of this port.
type TextSource interface {
	GetText(ctx context.Context, id uuid.UUID) (string, error)
}

// Writer accepts extracted text for a document id.
type Writer interface {
	PutText(ctx context.Context, id uuid.UUID, text string) error
}

// MemoryStore is a concurrency-safe in-memory TextSource + Writer.
type MemoryStore struct {
	mu    sync.RWMutex
	texts map[uuid.UUID]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{texts: make(map[uuid.UUID]string)}
}

func (s *MemoryStore) GetText(_ context.Context, id uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.texts[id]
	if !ok {
		return "", ErrDocumentNotFound
	}
	return text, nil
}

func (s *MemoryStore) PutText(_ context.Context, id uuid.UUID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[id] = text
	return nil
}
