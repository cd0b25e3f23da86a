// Package vm manages the process-wide runtime binding and per-caller
// attachment for the neon-bridge boundary.
//
// The binding is established once with Init and torn down once with
// Shutdown; every boundary operation depends on it. Each calling goroutine
// attaches to the bound VM on demand and receives an Env carrying its
// private last-error buffer:
//
//	v, err := vm.Init(factory)
//	...
//	env, err := v.AttachCurrent()
//	...
//	msg, ok := env.LastError()
//
// Attachment is idempotent and cheap on re-attach. Callers are never
// detached automatically, so the attachment set only grows over the
// runtime's life; AttachedCount exposes the growth.
//
// The error channel is a diagnostic side-channel, not a result type: it is
// overwritten on failure, never cleared on success, and isolated per
// caller. Code that wants transactional error reporting should use the
// bridge package's explicit error returns instead.
package vm
