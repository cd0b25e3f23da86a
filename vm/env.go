package vm

import (
	"fmt"
	"sync"

	"github.com/petermattis/goid"
)

// ErrorCap is the visible capacity of a caller's diagnostic buffer in
// bytes. Longer messages are truncated, never rejected.
const ErrorCap = 511

var (
	registryMu sync.RWMutex
	registry   = make(map[int64]*Env)
)

// Env is one caller's view of the boundary: a stable identity plus the
// last-error diagnostic buffer. An error recorded by one caller is never
// visible to another. The buffer is overwritten by each failing operation
// and is not cleared on success, so a reader that ignores return values
// can observe a stale message from an earlier call.
type Env struct {
	id      int64
	mu      sync.Mutex
	lastErr string
	written bool
}

// EnvForCaller returns the calling goroutine's Env, creating it on first
// use. It never fails, so diagnostics work even before the runtime binding
// exists.
func EnvForCaller() *Env {
	id := goid.Get()

	registryMu.RLock()
	e := registry[id]
	registryMu.RUnlock()
	if e != nil {
		return e
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if e := registry[id]; e != nil {
		return e
	}
	e = &Env{id: id}
	registry[id] = e
	return e
}

// ID returns the caller identity this Env is keyed by.
func (e *Env) ID() int64 {
	return e.id
}

// SetError records msg as the caller's last error, truncated to ErrorCap
// bytes.
func (e *Env) SetError(msg string) {
	if len(msg) > ErrorCap {
		msg = msg[:ErrorCap]
	}

	e.mu.Lock()
	e.lastErr = msg
	e.written = true
	e.mu.Unlock()
}

// SetErrorf records a formatted last error.
func (e *Env) SetErrorf(format string, args ...any) {
	e.SetError(fmt.Sprintf(format, args...))
}

// LastError returns the caller's last recorded error. The second return is
// false only if nothing was ever recorded for this caller.
func (e *Env) LastError() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.written {
		return "", false
	}
	return e.lastErr, true
}
