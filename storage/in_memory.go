package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Yumax-panda/Mario-Kart/interfaces"
)

// InMemoryStore 테스트/개발용 비영구 저장소 구현
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewInMemoryStore 새 인메모리 저장소 생성
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blobs: make(map[string][]byte)}
}

func (s *InMemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(data), nil
}

func (s *InMemoryStore) Put(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[path] = cloneBytes(data)
	return nil
}

// Update 잠금을 잡은 상태로 fn을 실행하므로 항상 한 번에 성공합니다
func (s *InMemoryStore) Update(ctx context.Context, path string, fn interfaces.UpdateFunc) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.blobs[path]
	next, err := fn(cloneBytes(current), exists)
	if err != nil {
		return nil, err
	}
	s.blobs[path] = cloneBytes(next)
	return next, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, path)
	return nil
}

func (s *InMemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for path := range s.blobs {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

func cloneBytes(data []byte) []byte {
	if data == nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
