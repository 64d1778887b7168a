package store

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ethereum/go-ethereum/log"

	"github.com/jstz-dev/jstz/kv/kverrors"
	"github.com/jstz-dev/jstz/kv/kvkey"
)

// LevelStore is a BackingStore over a goleveldb database, giving durable
// storage that survives a restart; no other package in this repository
// opens one. It plays the same role the teacher's ethdb/leveldb package
// plays for its on-disk chain data (teacher's go.mod lists
// syndtr/goleveldb directly).
type LevelStore struct {
	db *leveldb.DB
}

// OpenLevelStore opens (creating if necessary) a leveldb database at dir.
func OpenLevelStore(dir string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		log.Error("failed to open leveldb backing store", "dir", dir, "err", err)
		return nil, kverrors.ErrHostUnavailable
	}
	return &LevelStore{db: db}, nil
}

func (s *LevelStore) Get(key kvkey.Key) ([]byte, error) {
	data, err := s.db.Get([]byte(key.String()), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, kverrors.ErrHostUnavailable
	}
	return data, nil
}

func (s *LevelStore) Put(key kvkey.Key, data []byte) error {
	if err := s.db.Put([]byte(key.String()), data, nil); err != nil {
		return kverrors.ErrHostUnavailable
	}
	return nil
}

func (s *LevelStore) Delete(key kvkey.Key) error {
	if err := s.db.Delete([]byte(key.String()), nil); err != nil {
		return kverrors.ErrHostUnavailable
	}
	return nil
}

func (s *LevelStore) Exists(key kvkey.Key) (bool, error) {
	ok, err := s.db.Has([]byte(key.String()), nil)
	if err != nil {
		return false, kverrors.ErrHostUnavailable
	}
	return ok, nil
}

// Close releases the underlying leveldb handle.
func (s *LevelStore) Close() error {
	if err := s.db.Close(); err != nil {
		return kverrors.ErrHostUnavailable
	}
	return nil
}
