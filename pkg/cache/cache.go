// Package cache provides the key/value cache layer. Valkey backs it in
// deployment; the in-memory implementation serves development and tests.
package cache

import (
	"context"
	"sync"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, val string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backing store is reachable. Health
	// probes call it on every evaluation.
	Ping(ctx context.Context) error
}

type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	val string
	exp time.Time
}

func NewMemory() *Memory { return &Memory{entries: make(map[string]entry)} }

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return e.val, true
}

func (m *Memory) Set(_ context.Context, key string, val string, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry{val: val, exp: exp}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }
