package draft

import (
	"context"
	"strings"
	"sync"
)

// MemoryKV is the in-process KV used by tests and DB-less dev servers.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: map[string][]byte{}}
}

func (kv *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	b := make([]byte, len(value))
	copy(b, value)
	kv.m[key] = b
	return nil
}

func (kv *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	b, ok := kv.m[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

func (kv *MemoryKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
	return nil
}

func (kv *MemoryKV) DeleteByPrefix(_ context.Context, prefix string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	for k := range kv.m {
		if strings.HasPrefix(k, prefix) {
			delete(kv.m, k)
		}
	}
	return nil
}

// Len reports the number of stored entries.
func (kv *MemoryKV) Len() int {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	return len(kv.m)
}
