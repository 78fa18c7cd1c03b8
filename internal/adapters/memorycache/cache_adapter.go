package memorycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCacheAdapter - потокобезопасный кэш в памяти процесса.
// Используется в тестах и как запасной вариант, когда Redis не
// сконфигурирован. Семантика (TTL, удаление по префиксу) повторяет
// Redis-адаптер.
type MemoryCacheAdapter struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryCacheAdapter - конструктор.
func NewMemoryCacheAdapter() *MemoryCacheAdapter {
	return &MemoryCacheAdapter{entries: make(map[string]entry)}
}

func (a *MemoryCacheAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	a.mu.RLock()
	e, ok := a.entries[key]
	a.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if time.Now().After(e.expiresAt) {
		a.mu.Lock()
		delete(a.entries, key)
		a.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (a *MemoryCacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Hour
	}
	a.mu.Lock()
	a.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	a.mu.Unlock()
	return nil
}

func (a *MemoryCacheAdapter) Delete(ctx context.Context, keys ...string) error {
	a.mu.Lock()
	for _, key := range keys {
		delete(a.entries, key)
	}
	a.mu.Unlock()
	return nil
}

func (a *MemoryCacheAdapter) DeleteByPrefix(ctx context.Context, prefix string) error {
	a.mu.Lock()
	for key := range a.entries {
		if strings.HasPrefix(key, prefix) {
			delete(a.entries, key)
		}
	}
	a.mu.Unlock()
	return nil
}

// Len - количество живых записей (для тестов).
func (a *MemoryCacheAdapter) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

func (a *MemoryCacheAdapter) Close() error {
	return nil
}
