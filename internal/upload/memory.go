package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage keeps attachment bytes in memory. Used when no bucket is
// configured and in tests; references do not survive a restart.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStorage creates an empty in-memory Storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

// Store keeps the file bytes under a fresh reference.
func (m *MemoryStorage) Store(_ context.Context, name string, data io.Reader) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	ref := fmt.Sprintf("%s/%s-%s", attachmentObjectPrefix, uuid.NewString(), name)

	m.mu.Lock()
	m.objects[ref] = b
	m.mu.Unlock()
	return ref, nil
}

// Open returns a reader over previously stored bytes.
func (m *MemoryStorage) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	m.mu.RLock()
	b, ok := m.objects[ref]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("object %q not found", ref)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Len reports the number of stored objects.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
