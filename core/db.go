package core

import (
	"errors"
	"sync"

	"github.com/dgraph-io/badger/v2"

	"streamstat/storage"
)

// DB is a collection of streams checkpointed into one shared backend.
type DB struct {
	backend         storage.Backend
	config          *StoreConfig
	streams         map[int64]*Stream
	streamIdCounter int64
	mu              sync.Mutex
}

func New(path string) (*DB, error) {
	badgerOptions := badger.DefaultOptions(path).WithTruncate(true)
	badgerDb, err := badger.Open(badgerOptions)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(storage.NewBadgerBackend(badgerDb)), nil
}

func NewWithBackend(backend storage.Backend) *DB {
	return &DB{
		backend:         backend,
		config:          DefaultStoreConfig(),
		streams:         make(map[int64]*Stream),
		streamIdCounter: 0,
	}
}

// Open restores every checkpointed stream found in the backend at path.
func Open(path string) (*DB, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	err = db.ReadDB()
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) SetConfig(config *StoreConfig) *DB {
	db.config = config
	return db
}

func (db *DB) NewStream() (*Stream, error) {
	return db.NewStreamWithConfig(db.config)
}

func (db *DB) NewStreamWithConfig(config *StoreConfig) (*Stream, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	streamId := db.streamIdCounter
	db.streamIdCounter += 1

	stream := NewStreamWithId(streamId, config).
		SetBackend(db.backend, config.CacheEnabled)
	db.streams[streamId] = stream

	err := stream.Checkpoint()
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (db *DB) GetStream(streamId int64) (*Stream, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	stream, ok := db.streams[streamId]
	if !ok {
		return nil, errors.New("stream not found")
	}
	return stream, nil
}

// ReadDB rebuilds the stream map from the snapshots in the backend.
func (db *DB) ReadDB() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.backend.IterateStreams(func(streamId int64) error {
		stream := NewStreamWithId(streamId, db.config).
			SetBackend(db.backend, db.config.CacheEnabled)
		err := stream.PrimeUp()
		if err != nil {
			return err
		}
		db.streams[streamId] = stream
		if streamId >= db.streamIdCounter {
			db.streamIdCounter = streamId + 1
		}
		return nil
	})
}

func (db *DB) Close() error {
	return db.backend.Close()
}
