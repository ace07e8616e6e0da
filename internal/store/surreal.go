package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lacupula/imperium/internal/database"
)

// snapshotRecordID is the fixed record holding the serialized snapshot.
const snapshotRecordID = "snapshot:state"

// SurrealStore persists the snapshot as a single SurrealDB record.
//
// The snapshot is serialized to JSON and stored in one UPSERT, keeping
// the load-mutate-save model identical to the file backend while using
// SurrealDB for durability.
type SurrealStore struct {
	db database.Database
}

// NewSurrealStore creates a SurrealStore backed by the given database.
func NewSurrealStore(db database.Database) *SurrealStore {
	return &SurrealStore{db: db}
}

// Load reads the snapshot record. A missing record yields an empty
// snapshot, matching FileStore behavior for fresh deployments.
func (s *SurrealStore) Load(ctx context.Context) (*Snapshot, error) {
	result, err := s.db.QueryOne(ctx, "SELECT data FROM "+snapshotRecordID, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	record, ok := result.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: unexpected record shape %T", ErrLoad, result)
	}
	raw, ok := record["data"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: snapshot record missing data field", ErrLoad)
	}

	snap := NewSnapshot()
	if err := json.Unmarshal([]byte(raw), snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return snap, nil
}

// Save replaces the snapshot record wholesale.
func (s *SurrealStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}

	err = s.db.Execute(ctx, "UPSERT "+snapshotRecordID+" SET data = $data", map[string]interface{}{
		"data": string(data),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	return nil
}
