package main

import (
	"sync"

	"github.com/jstz-dev/jstz/node"
)

// memReceiptStore is a process-lifetime-only, in-memory
// node.ReceiptStore. Nothing in this process calls put, so every lookup
// answers "not found".
type memReceiptStore struct {
	mu       sync.RWMutex
	receipts map[string]node.Receipt
}

func newMemReceiptStore() *memReceiptStore {
	return &memReceiptStore{receipts: make(map[string]node.Receipt)}
}

func (s *memReceiptStore) Receipt(hash string) (node.Receipt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.receipts[hash]
	return r, ok
}

func (s *memReceiptStore) put(r node.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[r.Hash] = r
}
