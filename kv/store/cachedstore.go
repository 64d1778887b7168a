package store

import (
	"github.com/VictoriaMetrics/fastcache"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/jstz-dev/jstz/kv/kvkey"
)

var (
	cleanHitMeter  = metrics.NewRegisteredMeter("kv/store/clean/hit", nil)
	cleanMissMeter = metrics.NewRegisteredMeter("kv/store/clean/miss", nil)
)

// CachedStore wraps another BackingStore with a bounded in-memory read
// cache, the same role fastcache plays in front of the teacher's
// on-disk state (journal.go/disklayer_generate.go's fastcache.New
// calls) in front of raw leveldb reads.
type CachedStore struct {
	inner BackingStore
	cache *fastcache.Cache
}

// NewCachedStore wraps inner with an in-memory cache of roughly
// maxBytes capacity.
func NewCachedStore(inner BackingStore, maxBytes int) *CachedStore {
	return &CachedStore{inner: inner, cache: fastcache.New(maxBytes)}
}

func (s *CachedStore) Get(key kvkey.Key) ([]byte, error) {
	path := []byte(key.String())
	if cached, found := s.cache.HasGet(nil, path); found {
		cleanHitMeter.Mark(1)
		return cached, nil
	}
	cleanMissMeter.Mark(1)

	data, err := s.inner.Get(key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		s.cache.Set(path, data)
	}
	return data, nil
}

func (s *CachedStore) Put(key kvkey.Key, data []byte) error {
	if err := s.inner.Put(key, data); err != nil {
		return err
	}
	s.cache.Set([]byte(key.String()), data)
	return nil
}

func (s *CachedStore) Delete(key kvkey.Key) error {
	if err := s.inner.Delete(key); err != nil {
		return err
	}
	s.cache.Del([]byte(key.String()))
	return nil
}

func (s *CachedStore) Exists(key kvkey.Key) (bool, error) {
	path := []byte(key.String())
	if s.cache.Has(path) {
		return true, nil
	}
	return s.inner.Exists(key)
}

// Reset clears the cache without touching the underlying store, useful
// after a bulk load that bypassed the cache.
func (s *CachedStore) Reset() {
	s.cache.Reset()
}
