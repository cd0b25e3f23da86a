package bridge

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	neonbridge "github.com/quietterminal/neon-bridge"
	"github.com/quietterminal/neon-bridge/callback"
	berrors "github.com/quietterminal/neon-bridge/errors"
	"github.com/quietterminal/neon-bridge/handle"
	"github.com/quietterminal/neon-bridge/vm"
)

// Boundary forwards native-side operations into the bound managed runtime.
// Every method executes synchronously on the calling goroutine; concurrency
// comes entirely from independent callers. The boundary itself holds no
// protocol state; the managed side is the single source of truth.
type Boundary struct {
	vm  *vm.VM
	log *zap.Logger
}

// New creates a boundary over the bound VM.
func New(v *vm.VM) *Boundary {
	return &Boundary{vm: v, log: v.Log()}
}

// clientEntry wraps one managed client reference for the handle's
// lifetime. The freed flag is checked before every dereference, closing
// the free-versus-operation race.
type clientEntry struct {
	managed   neonbridge.ManagedClient
	callbacks *callback.ClientTable
	freed     atomic.Bool
}

// Drop releases the entry during arena teardown.
func (e *clientEntry) Drop() {
	e.release(vm.Logger())
}

func (e *clientEntry) release(log *zap.Logger) {
	if !e.freed.CompareAndSwap(false, true) {
		return
	}
	e.callbacks.Invalidate()

	// Best-effort shutdown of the managed object; cleanup must not fail
	// loudly, so failures and panics are swallowed after logging.
	defer func() {
		if r := recover(); r != nil {
			log.Debug("managed close panicked", zap.Any("cause", r))
		}
	}()
	if err := e.managed.Close(); err != nil {
		log.Debug("managed close failed", zap.Error(err))
	}
}

type hostEntry struct {
	managed   neonbridge.ManagedHost
	callbacks *callback.HostTable
	freed     atomic.Bool
}

func (e *hostEntry) Drop() {
	e.release(vm.Logger())
}

func (e *hostEntry) release(log *zap.Logger) {
	if !e.freed.CompareAndSwap(false, true) {
		return
	}
	e.callbacks.Invalidate()

	defer func() {
		if r := recover(); r != nil {
			log.Debug("managed close panicked", zap.Any("cause", r))
		}
	}()
	if err := e.managed.Close(); err != nil {
		log.Debug("managed close failed", zap.Error(err))
	}
}

func (b *Boundary) resolveClient(op string, h handle.Handle) (*clientEntry, error) {
	value, ok := b.vm.Clients().Get(h)
	if !ok {
		return nil, berrors.InvalidHandle(op, "client")
	}
	e := value.(*clientEntry)
	if e.freed.Load() {
		return nil, berrors.InvalidHandle(op, "client")
	}
	return e, nil
}

func (b *Boundary) resolveHost(op string, h handle.Handle) (*hostEntry, error) {
	value, ok := b.vm.Hosts().Get(h)
	if !ok {
		return nil, berrors.InvalidHandle(op, "host")
	}
	e := value.(*hostEntry)
	if e.freed.Load() {
		return nil, berrors.InvalidHandle(op, "host")
	}
	return e, nil
}

// invoke runs one forwarded managed call. Failures raised on the managed
// side never cross the boundary as-is: the cause is logged at Debug, then
// discarded down to the operation name in the returned error.
func (b *Boundary) invoke(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Debug("managed call panicked",
				zap.String("op", op), zap.Any("cause", r))
			err = berrors.ManagedCall(op, fmt.Errorf("panic: %v", r))
		}
	}()

	if callErr := fn(); callErr != nil {
		b.log.Debug("managed call failed",
			zap.String("op", op), zap.Error(callErr))
		return berrors.ManagedCall(op, callErr)
	}
	return nil
}

// construct guards a managed constructor the same way.
func (b *Boundary) construct(what string, fn func() error) error {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}()
	if err != nil {
		b.log.Debug("managed constructor failed",
			zap.String("what", what), zap.Error(err))
		return berrors.ConstructionFailed(what, err)
	}
	return nil
}
