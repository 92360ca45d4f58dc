// Package handoff passes session-scoped selection values from the search screen to the edit screen.
package handoff

import (
	"context"
	"errors"
	"sync"
)

// Fixed key names shared by the search and edit flows.
const (
	SelectedCustomerID     = "selectedCustomerId"
	SelectedCustomerNumber = "selectedCustomerNumber"
	SelectedNationalID     = "selectedNatId"
)

// Keys lists every handoff key.
var Keys = []string{SelectedCustomerID, SelectedCustomerNumber, SelectedNationalID}

// ErrNotSet is returned when a key holds no value.
var ErrNotSet = errors.New("handoff value not set")

// Store is a small key-value side channel scoped to one operator session.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, keys ...string) error
}

// Memory is a process-local Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok || v == "" {
		return "", ErrNotSet
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Clear(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
