package host

import (
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// Mock is an in-memory Runtime used across the test suite, grounded on
// the original implementation's jstz_mock crate: a lightweight stand-in
// for the real rollup host that test code can seed directly.
type Mock struct {
	mu   sync.RWMutex
	data map[string][]byte
	logs []string
}

// NewMock returns an empty Mock runtime.
func NewMock() *Mock {
	return &Mock{data: make(map[string][]byte)}
}

func (m *Mock) ReadBytes(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[path], nil
}

func (m *Mock) WriteBytes(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[path] = cp
	return nil
}

func (m *Mock) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, path)
	return nil
}

func (m *Mock) Exists(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[path]
	return ok, nil
}

func (m *Mock) WriteDebug(msg string) {
	m.mu.Lock()
	m.logs = append(m.logs, msg)
	m.mu.Unlock()
	log.Debug("jstz kernel", "msg", msg)
}

// Logs returns a copy of the debug lines written so far. Test helper.
func (m *Mock) Logs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.logs))
	copy(out, m.logs)
	return out
}

// Seed pre-populates a path, for tests that need a value to already
// exist in the backing store before a transaction begins.
func (m *Mock) Seed(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[path] = data
}
