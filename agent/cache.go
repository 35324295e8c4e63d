package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type MemoryCache[S any] struct {
	mu sync.RWMutex
	m  map[string]S
}

func NewMemoryCache[S any]() *MemoryCache[S] {
	return &MemoryCache[S]{m: map[string]S{}}
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	m.m[key] = val
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.RLock()
	val, ok := m.m[key]
	m.mu.RUnlock()
	return val, ok, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.m[key]
	m.mu.RUnlock()
	return ok, nil
}

// GoCache expires idle entries after ttl. Reads refresh the expiry. A
// cleanup interval of zero disables the background janitor; expired entries
// are then only dropped on access.
type GoCache[S any] struct {
	c *gocache.Cache
}

func NewGoCache[S any](ttl, cleanupInterval time.Duration, onEvicted func(key string, val S)) *GoCache[S] {
	c := gocache.New(ttl, cleanupInterval)
	if onEvicted != nil {
		c.OnEvicted(func(key string, v interface{}) {
			if val, ok := v.(S); ok {
				onEvicted(key, val)
			}
		})
	}
	return &GoCache[S]{c: c}
}

func (g *GoCache[S]) Set(ctx context.Context, key string, val S) error {
	g.c.Set(key, val, gocache.DefaultExpiration)
	return nil
}

func (g *GoCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	var zero S
	v, ok := g.c.Get(key)
	if !ok {
		return zero, false, nil
	}
	val, ok := v.(S)
	if !ok {
		return zero, false, fmt.Errorf("cache entry %q has type %T", key, v)
	}
	g.c.Set(key, val, gocache.DefaultExpiration)
	return val, true, nil
}

func (g *GoCache[S]) Del(ctx context.Context, key string) error {
	g.c.Delete(key)
	return nil
}

func (g *GoCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := g.c.Get(key)
	return ok, nil
}

// Len counts entries, including expired ones not yet cleaned up.
func (g *GoCache[S]) Len() int {
	return g.c.ItemCount()
}
