// Package capi reproduces the boundary's original flat calling contract.
//
// Every function takes raw uint64 handles and reports failure through a
// type-appropriate sentinel (0 handle, false, -1 count) paired with a
// diagnostic on the caller's error channel, readable via GetLastError.
// The two are not transactionally linked: a caller that ignores return
// values and polls GetLastError can read a stale message from an earlier
// failure, because success never clears the channel.
//
// Operations documented as silent (IsConnected, the callback setters,
// SetAutoPing, the free functions) fail without touching the error
// channel. Every call attaches the caller to the runtime implicitly;
// attachment is permanent for the runtime's life.
//
// Code not bound to this contract should prefer the bridge package, which
// returns explicit errors.
package capi
