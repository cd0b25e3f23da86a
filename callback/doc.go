// Package callback stores per-handle notification callbacks and relays
// managed-side events to them.
//
// The tables replace the source design's raw native function pointers with
// typed Go funcs stored under a lock. Each table implements the matching
// events interface from the root package, so the managed side never holds
// a caller's function directly; it calls the table, and the table forwards
// to whatever is currently registered. Freeing a handle invalidates its
// table, turning late events into no-ops instead of calls through a
// dangling pointer.
package callback
