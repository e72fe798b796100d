package storage

import (
	"github.com/dgraph-io/badger/v2"
)

func TestBadgerDB() *badger.DB {
	option := badger.DefaultOptions("").WithInMemory(true)
	db, err := badger.Open(option)
	if err != nil {
		panic(err)
	}
	return db
}

type BadgerBackend struct {
	db *badger.DB
}

func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}

func (backend *BadgerBackend) txnGet(key []byte) ([]byte, error) {
	var snapshotBytes []byte
	err := backend.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		snapshotBytes, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrSnapshotNotFound
	}
	return snapshotBytes, err
}

func (backend *BadgerBackend) txnPut(key, buf []byte) error {
	err := backend.db.Update(func(txn *badger.Txn) error {
		err := txn.Set(key, buf)
		return err
	})
	return err
}

func (backend *BadgerBackend) txnDelete(key []byte) error {
	err := backend.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(key)
		return err
	})
	return err
}

func (backend *BadgerBackend) Get(streamID int64) ([]byte, error) {
	return backend.txnGet(GetKey(streamID))
}

func (backend *BadgerBackend) Put(streamID int64, buf []byte) error {
	return backend.txnPut(GetKey(streamID), buf)
}

func (backend *BadgerBackend) Delete(streamID int64) error {
	return backend.txnDelete(GetKey(streamID))
}

func (backend *BadgerBackend) IterateStreams(lambda func(int64) error) error {
	iterOpts := badger.IteratorOptions{}
	err := backend.db.View(func(txn *badger.Txn) error {
		iter := txn.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Seek(nil); iter.Valid(); iter.Next() {
			item := iter.Item()
			err := lambda(GetStreamIDFromKey(item.Key()))
			if err != nil {
				return err
			}
		}
		return nil
	})
	return err
}
