// Package handle provides the opaque handle arena backing the boundary's
// client and host registries.
//
// Callers never see the wrapped managed object; they receive a Handle that
// indirectly identifies a slot in an Arena. Slots are reused through a free
// list, and every slot carries a generation counter that is bumped on
// removal. A handle therefore encodes both the slot index and the
// generation it was allocated under:
//
//	h, _ := arena.Put(obj)
//	v, ok := arena.Get(h)   // ok
//	arena.Remove(h)
//	_, ok = arena.Get(h)    // !ok, even after the slot is reused
//
// This turns use-after-free from undefined behavior into a detectable
// invalid-handle condition.
package handle
