package handle

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("handle arena closed")

// Handle is an opaque reference handed to callers. The low 32 bits select
// a slot (index+1, so 0 stays invalid) and the high 32 bits carry the
// slot's generation at allocation time. Freeing a slot bumps its
// generation, so a stale handle no longer resolves.
type Handle uint64

// Zero is the always-invalid handle.
const Zero Handle = 0

// Dropper is optionally implemented by stored values that need cleanup
// when the arena is closed.
type Dropper interface {
	Drop()
}

// Arena is a slot-based store for managed-object wrappers with free-list
// reuse and generation-checked lookups.
type Arena struct {
	slots  []slot
	free   []uint32
	mu     sync.RWMutex
	closed bool
}

type slot struct {
	value any
	gen   uint32
	live  bool
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		slots: make([]slot, 0, 16),
		free:  make([]uint32, 0, 8),
	}
}

func pack(idx, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(idx+1))
}

func split(h Handle) (idx, gen uint32, ok bool) {
	if h == 0 {
		return 0, 0, false
	}
	low := uint32(h)
	if low == 0 {
		return 0, 0, false
	}
	return low - 1, uint32(h >> 32), true
}

// Put stores a value and returns its handle.
func (a *Arena) Put(value any) (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return Zero, ErrClosed
	}

	if len(a.free) > 0 {
		idx := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		s := &a.slots[idx]
		s.value = value
		s.live = true
		return pack(idx, s.gen), nil
	}

	a.slots = append(a.slots, slot{value: value, live: true})
	return pack(uint32(len(a.slots)-1), 0), nil
}

// Get resolves a handle to its value. A zero handle, an out-of-range slot,
// or a generation mismatch all report false.
func (a *Arena) Get(h Handle) (any, bool) {
	idx, gen, ok := split(h)
	if !ok {
		return nil, false
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if int(idx) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[idx]
	if !s.live || s.gen != gen {
		return nil, false
	}
	return s.value, true
}

// Remove drops a handle and returns its value. The slot's generation is
// bumped before reuse so the old handle is detectably stale.
func (a *Arena) Remove(h Handle) (any, bool) {
	idx, gen, ok := split(h)
	if !ok {
		return nil, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if int(idx) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[idx]
	if !s.live || s.gen != gen {
		return nil, false
	}

	value := s.value
	s.value = nil
	s.live = false
	s.gen++
	a.free = append(a.free, idx)
	return value, true
}

// Len returns the number of live handles.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	count := 0
	for _, s := range a.slots {
		if s.live {
			count++
		}
	}
	return count
}

// Each iterates over all live handles.
func (a *Arena) Each(fn func(Handle, any) bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for i, s := range a.slots {
		if s.live {
			if !fn(pack(uint32(i), s.gen), s.value) {
				break
			}
		}
	}
}

// Close drops all live values and stops accepting new ones. Values
// implementing Dropper are given a chance to clean up.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	for i := range a.slots {
		if a.slots[i].live {
			if d, ok := a.slots[i].value.(Dropper); ok {
				d.Drop()
			}
			a.slots[i].live = false
			a.slots[i].value = nil
		}
	}

	a.slots = nil
	a.free = nil
	return nil
}
