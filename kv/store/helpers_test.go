package store

import (
	"sync"

	"github.com/jstz-dev/jstz/kv/value"
)

var registerOnce sync.Once

func registerTestRecord() {
	registerOnce.Do(func() {
		value.Register[record]("store_test.record")
	})
}
