package store

import (
	"github.com/jstz-dev/jstz/host"
	"github.com/jstz-dev/jstz/kv/kverrors"
	"github.com/jstz-dev/jstz/kv/kvkey"
)

// HostStore adapts a host.Runtime (the narrow Host Facade) into a
// BackingStore, the production path: the transaction engine's bottom-
// level commit flushes into this store, which in turn calls into the
// rollup kernel's actual durable storage.
type HostStore struct {
	rt host.Runtime
}

// NewHostStore wraps rt as a BackingStore.
func NewHostStore(rt host.Runtime) *HostStore {
	return &HostStore{rt: rt}
}

func (h *HostStore) Get(key kvkey.Key) ([]byte, error) {
	data, err := h.rt.ReadBytes(key.String())
	if err != nil {
		return nil, kverrors.ErrHostUnavailable
	}
	return data, nil
}

func (h *HostStore) Put(key kvkey.Key, data []byte) error {
	if err := h.rt.WriteBytes(key.String(), data); err != nil {
		return kverrors.ErrHostUnavailable
	}
	return nil
}

func (h *HostStore) Delete(key kvkey.Key) error {
	if err := h.rt.Delete(key.String()); err != nil {
		return kverrors.ErrHostUnavailable
	}
	return nil
}

func (h *HostStore) Exists(key kvkey.Key) (bool, error) {
	ok, err := h.rt.Exists(key.String())
	if err != nil {
		return false, kverrors.ErrHostUnavailable
	}
	return ok, nil
}
