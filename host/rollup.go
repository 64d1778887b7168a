package host

import "errors"

// ErrNotImplemented is returned by Rollup's methods: the real syscall
// boundary into the Tezos smart-rollup kernel runtime is an external
// collaborator (spec §1) outside this repository's core scope. Rollup
// exists so that production wiring code has a concrete Runtime to name;
// a real deployment replaces it with the kernel's actual host bindings.
var ErrNotImplemented = errors.New("host: rollup syscall bridge not implemented in this build")

// Rollup is a placeholder adapter over the rollup kernel's durable
// storage syscalls. It satisfies Runtime so callers are agnostic to
// which implementation is wired in, per spec §4.6.
type Rollup struct{}

func (Rollup) ReadBytes(path string) ([]byte, error)     { return nil, ErrNotImplemented }
func (Rollup) WriteBytes(path string, data []byte) error { return ErrNotImplemented }
func (Rollup) Delete(path string) error                  { return ErrNotImplemented }
func (Rollup) Exists(path string) (bool, error)           { return false, ErrNotImplemented }
func (Rollup) WriteDebug(msg string)                      {}
