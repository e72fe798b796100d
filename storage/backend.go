package storage

import (
	"encoding/binary"
	"errors"
	"sync"
)

// ErrSnapshotNotFound is returned by Get when no checkpoint has been
// written for the stream.
var ErrSnapshotNotFound = errors.New("no snapshot for stream")

func GetKey(streamID int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(streamID))
	return buf
}

func GetStreamIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[:8]))
}

// Backend persists one opaque snapshot per stream.
type Backend interface {
	Get(streamID int64) ([]byte, error)
	Put(streamID int64, buf []byte) error
	Delete(streamID int64) error

	// IterateStreams calls lambda once per stream that has a snapshot.
	IterateStreams(lambda func(streamID int64) error) error

	Close() error
}

type InMemoryBackend struct {
	snapshotMap      map[string][]byte
	snapshotMapMutex sync.Mutex
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		snapshotMap: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) Get(streamID int64) ([]byte, error) {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()
	buf, ok := backend.snapshotMap[string(GetKey(streamID))]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return buf, nil
}

func (backend *InMemoryBackend) Put(streamID int64, buf []byte) error {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()
	backend.snapshotMap[string(GetKey(streamID))] = buf
	return nil
}

func (backend *InMemoryBackend) Delete(streamID int64) error {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()
	delete(backend.snapshotMap, string(GetKey(streamID)))
	return nil
}

func (backend *InMemoryBackend) IterateStreams(lambda func(int64) error) error {
	backend.snapshotMapMutex.Lock()
	defer backend.snapshotMapMutex.Unlock()
	for key := range backend.snapshotMap {
		err := lambda(GetStreamIDFromKey([]byte(key)))
		if err != nil {
			return err
		}
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	return nil
}
