// Package kvstore defines the string key/value substrate workouts are
// persisted to, plus the in-memory implementations. Durable drivers live in
// the sqlite, postgres and s3 subpackages.
package kvstore

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable reports that the substrate cannot be used at all.
var ErrUnavailable = errors.New("key-value store unavailable")

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Memory is a Store backed by a map.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Unavailable stands in when no substrate could be opened. Every call fails
// with ErrUnavailable.
type Unavailable struct {
	// Cause is the error that prevented opening the real store.
	Cause error
}

func (u Unavailable) err() error {
	if u.Cause == nil {
		return ErrUnavailable
	}
	return errors.Join(ErrUnavailable, u.Cause)
}

func (u Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, u.err()
}

func (u Unavailable) Set(context.Context, string, string) error {
	return u.err()
}

func (u Unavailable) Remove(context.Context, string) error {
	return u.err()
}

var (
	_ Store = (*Memory)(nil)
	_ Store = Unavailable{}
)
