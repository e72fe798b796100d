package core

import (
	"github.com/dgraph-io/ristretto"

	"streamstat/storage"
)

// CheckpointStore keeps one snapshot per stream in a storage.Backend,
// with a ristretto read cache in front of it.
type CheckpointStore struct {
	backend       storage.Backend
	cacheEnabled  bool
	snapshotCache *ristretto.Cache
}

func NewCheckpointStore(backend storage.Backend, cacheEnabled bool) *CheckpointStore {
	snapshotCache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e3,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})

	return &CheckpointStore{
		backend:       backend,
		cacheEnabled:  cacheEnabled,
		snapshotCache: snapshotCache,
	}
}

func (store *CheckpointStore) Get(streamID int64) (*Snapshot, error) {
	if store.cacheEnabled {
		snapshot, found := store.snapshotCache.Get(streamID)
		if found {
			return snapshot.(*Snapshot), nil
		}
	}
	buf, err := store.backend.Get(streamID)
	if err != nil {
		return nil, err
	}
	return BytesToSnapshot(buf)
}

func (store *CheckpointStore) Put(streamID int64, snapshot *Snapshot) error {
	buf, err := SnapshotToBytes(snapshot)
	if err != nil {
		return err
	}
	if store.cacheEnabled {
		store.snapshotCache.Set(streamID, snapshot, 1)
	}
	return store.backend.Put(streamID, buf)
}

func (store *CheckpointStore) Delete(streamID int64) error {
	if store.cacheEnabled {
		store.snapshotCache.Del(streamID)
	}
	return store.backend.Delete(streamID)
}
