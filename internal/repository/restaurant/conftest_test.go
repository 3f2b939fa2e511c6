package restaurant

import (
	"context"
	"strings"
	"sync"

	"github.com/kailas-cloud/gourmet/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetFn  func(ctx context.Context, key, path string, data []byte, mode db.WriteMode) error
	jsonGetFn  func(ctx context.Context, key, path string) ([]byte, error)
	jsonMGetFn func(ctx context.Context, keys []string, path string) ([][]byte, error)
	delFn      func(ctx context.Context, key string) error
	scanFn     func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) JSONSet(ctx context.Context, key, path string, data []byte, mode db.WriteMode) error {
	if m.jsonSetFn != nil {
		return m.jsonSetFn(ctx, key, path, data, mode)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key, path string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, path)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) JSONMGet(ctx context.Context, keys []string, path string) ([][]byte, error) {
	if m.jsonMGetFn != nil {
		return m.jsonMGetFn(ctx, keys, path)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

// memStore is an in-memory JSON store that mimics the "$" path reply shape
// and the NX/XX conditions of JSON.SET.
type memStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]byte)}
}

func (m *memStore) JSONSet(_ context.Context, key, _ string, data []byte, mode db.WriteMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.docs[key]
	switch {
	case mode == db.WriteIfAbsent && ok:
		return db.ErrKeyExists
	case mode == db.WriteIfPresent && !ok:
		return db.ErrKeyNotFound
	}
	m.docs[key] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) JSONGet(_ context.Context, key, _ string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return wrap(d), nil
}

func (m *memStore) JSONMGet(_ context.Context, keys []string, _ string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(keys))
	for i, k := range keys {
		if d, ok := m.docs[k]; ok {
			out[i] = wrap(d)
		}
	}
	return out, nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; !ok {
		return db.ErrKeyNotFound
	}
	delete(m.docs, key)
	return nil
}

func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.docs {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func wrap(d []byte) []byte {
	return []byte("[" + string(d) + "]")
}
