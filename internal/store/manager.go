package store

import (
	"context"
	"sync"
)

// Manager serializes snapshot access across concurrent requests.
//
// Every operation holds the mutex for its full load-mutate-save cycle,
// so precondition checks (name uniqueness, pending-application checks)
// are atomic with the mutation that depends on them. Because each
// operation reloads from the backend, a failed Save leaves no divergent
// in-memory state behind.
type Manager struct {
	mu    sync.Mutex
	store Store
}

// NewManager wraps a Store with serialized access.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// View runs fn against a fresh snapshot without persisting changes.
func (m *Manager) View(ctx context.Context, fn func(snap *Snapshot) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(snap)
}

// Update runs fn against a fresh snapshot and persists the result.
// If fn returns an error the snapshot is not saved.
func (m *Manager) Update(ctx context.Context, fn func(snap *Snapshot) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return m.store.Save(ctx, snap)
}
