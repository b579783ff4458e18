package media

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"sync"
)

// MemoryStore keeps images in process memory. It backs tests and local runs without MongoDB.
type MemoryStore struct {
	mu    sync.RWMutex
	next  int
	files map[string]memoryFile
}

type memoryFile struct {
	data        []byte
	contentType string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]memoryFile)}
}

func (s *MemoryStore) Save(_ context.Context, _ string, r io.Reader) (string, error) {
	contentType, body, err := sniff(r)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	ref := "mem" + strconv.Itoa(s.next)
	s.files[ref] = memoryFile{data: data, contentType: contentType}
	return ref, nil
}

func (s *MemoryStore) Open(_ context.Context, ref string) (*Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return &Object{
		ReadCloser:  io.NopCloser(bytes.NewReader(f.data)),
		ContentType: f.contentType,
		Size:        int64(len(f.data)),
	}, nil
}

func (s *MemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[ref]; !ok {
		return ErrNotFound
	}
	delete(s.files, ref)
	return nil
}
