package vm

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	neonbridge "github.com/quietterminal/neon-bridge"
	berrors "github.com/quietterminal/neon-bridge/errors"
	"github.com/quietterminal/neon-bridge/handle"
)

// Process-wide runtime binding. Init and Shutdown pair up; a second Init
// without an intervening Shutdown fails loudly.
var (
	bindMu  sync.Mutex
	current *VM
)

// VM is the bound managed runtime: the factory producing managed objects,
// the handle arenas, and the set of attached callers.
type VM struct {
	factory  neonbridge.Factory
	log      *zap.Logger
	clients  *handle.Arena
	hosts    *handle.Arena
	attachMu sync.Mutex
	attached map[int64]*Env
	closed   atomic.Bool
}

// Option configures a VM at Init time.
type Option func(*VM)

// WithLogger sets the VM's logger. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *VM) {
		if l != nil {
			v.log = l
		}
	}
}

// Init establishes the process-wide runtime binding. Every handle
// operation depends on this having succeeded first.
func Init(factory neonbridge.Factory, opts ...Option) (*VM, error) {
	if factory == nil {
		return nil, berrors.InvalidArgument("init", "nil factory")
	}

	bindMu.Lock()
	defer bindMu.Unlock()

	if current != nil {
		return nil, berrors.AlreadyInitialized()
	}

	v := &VM{
		factory:  factory,
		log:      Logger(),
		clients:  handle.NewArena(),
		hosts:    handle.NewArena(),
		attached: make(map[int64]*Env),
	}
	for _, opt := range opts {
		opt(v)
	}

	current = v
	v.log.Debug("runtime binding established")
	return v, nil
}

// Current returns the bound VM.
func Current() (*VM, error) {
	bindMu.Lock()
	defer bindMu.Unlock()

	if current == nil {
		return nil, berrors.NotInitialized(berrors.StageAttach)
	}
	return current, nil
}

// Shutdown tears the binding down: remaining handles are released with a
// best-effort close of their managed objects, attachments are dropped, and
// a later Init becomes possible again.
func Shutdown() error {
	bindMu.Lock()
	defer bindMu.Unlock()

	if current == nil {
		return berrors.NotInitialized(berrors.StageInit)
	}

	v := current
	current = nil
	v.closed.Store(true)

	// Arena close invokes each entry's Dropper, which swallows managed
	// close failures; cleanup must not fail loudly.
	_ = v.clients.Close()
	_ = v.hosts.Close()

	v.attachMu.Lock()
	v.attached = make(map[int64]*Env)
	v.attachMu.Unlock()

	v.log.Debug("runtime binding torn down")
	return nil
}

// AttachCurrent binds the calling goroutine to the runtime. Safe to call
// any number of times from any caller; re-attachment returns the existing
// Env cheaply. Attached callers are never detached automatically; an
// attachment lasts for the runtime's life.
func (v *VM) AttachCurrent() (*Env, error) {
	if v.closed.Load() {
		return nil, berrors.AttachFailed("shutdown in progress")
	}

	e := EnvForCaller()

	v.attachMu.Lock()
	if _, ok := v.attached[e.id]; !ok {
		v.attached[e.id] = e
		v.log.Debug("caller attached", zap.Int64("caller", e.id))
	}
	v.attachMu.Unlock()

	return e, nil
}

// AttachedCount reports how many callers have attached. Attachments only
// grow; the count makes the resource-growth hazard observable.
func (v *VM) AttachedCount() int {
	v.attachMu.Lock()
	defer v.attachMu.Unlock()
	return len(v.attached)
}

// Factory returns the managed-object factory.
func (v *VM) Factory() neonbridge.Factory {
	return v.factory
}

// Clients returns the client handle arena.
func (v *VM) Clients() *handle.Arena {
	return v.clients
}

// Hosts returns the host handle arena.
func (v *VM) Hosts() *handle.Arena {
	return v.hosts
}

// Log returns the VM's logger.
func (v *VM) Log() *zap.Logger {
	return v.log
}

// Closed reports whether Shutdown has begun for this VM.
func (v *VM) Closed() bool {
	return v.closed.Load()
}
