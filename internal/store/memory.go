package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// MemStore keeps the snapshot in memory. Used in tests and as a
// fallback backend for throwaway environments.
//
// Load and Save deep-copy through JSON so callers cannot mutate stored
// state without an explicit Save, matching the durable backends.
type MemStore struct {
	data []byte

	// FailNextSave forces the next Save to return ErrSave. Tests use
	// this to verify that a failed persist aborts the operation.
	FailNextSave bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns a deep copy of the stored snapshot.
func (m *MemStore) Load(ctx context.Context) (*Snapshot, error) {
	if m.data == nil {
		return NewSnapshot(), nil
	}
	snap := NewSnapshot()
	if err := json.Unmarshal(m.data, snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return snap, nil
}

// Save stores a deep copy of the snapshot.
func (m *MemStore) Save(ctx context.Context, snap *Snapshot) error {
	if m.FailNextSave {
		m.FailNextSave = false
		return fmt.Errorf("%w: injected failure", ErrSave)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	m.data = data
	return nil
}
